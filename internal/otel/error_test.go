package otel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecordError(t *testing.T) {
	errSentinel := errors.New("cart is empty")
	tests := []struct {
		name          string
		err           error
		expectedType  string
		expectedError bool
	}{
		{name: "given nil error should leave span untouched", err: nil},
		{
			name:          "given wrapped error should record root cause",
			err:           fmt.Errorf("failed checking out with error=%w", errSentinel),
			expectedType:  "cart is empty",
			expectedError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			_, span := provider.Tracer("test").Start(context.Background(), "test")

			RecordError(test.err, span)
			span.End()

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			if !test.expectedError {
				assert.Equal(t, codes.Unset, spans[0].Status().Code)
				assert.Empty(t, spans[0].Events())
				return
			}
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, test.err.Error(), spans[0].Status().Description)
			assert.Contains(t, spans[0].Attributes(), attribute.String(keyErrorType, test.expectedType))
			assert.Len(t, spans[0].Events(), 1)
		})
	}
}
