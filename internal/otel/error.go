package otel

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyErrorType = "error.type"

// rootCause returns the innermost error of a wrap chain built with %w.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// RecordError marks span as failed. The innermost error is attached as
// error.type so sentinel failures can be grouped in the trace backend.
func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.SetAttributes(attribute.String(keyErrorType, rootCause(err).Error()))
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
