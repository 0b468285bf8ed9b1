package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/cityat/internal/errors"
	"github.com/Alturino/cityat/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"].(int); ok {
		w.WriteHeader(v)
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteSuccess(
	c context.Context,
	w http.ResponseWriter,
	message string,
	data map[string]interface{},
) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     STATUS_SUCCESS,
		"statusCode": http.StatusOK,
		"message":    message,
		"data":       data,
	})
}

func WriteError(c context.Context, w http.ResponseWriter, statusCode int, err error) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     STATUS_FAILED,
		"statusCode": statusCode,
		"message":    err.Error(),
	})
}

// StatusCode maps domain errors onto http status codes.
func StatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject),
		errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrCartItemNotFound),
		errors.Is(err, inErrors.ErrCityNotFound),
		errors.Is(err, inErrors.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrCartEmpty),
		errors.Is(err, inErrors.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inErrors.ErrConflict),
		errors.Is(err, inErrors.ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrCheckoutRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
