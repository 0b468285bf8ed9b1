package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/otel"
)

// Logging returns a middleware that attaches a request scoped child of
// logger to every request.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(inHttp.KEY_HEADER_REQUEST_ID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c, span := otel.Tracer.Start(
				r.Context(),
				"middleware Logging",
				trace.WithAttributes(
					attribute.String(log.KeyRequestID, requestID),
					attribute.String(log.KeyRequestHost, r.Host),
					attribute.String(log.KeyRequestIp, r.RemoteAddr),
					attribute.String(log.KeyRequestMethod, r.Method),
					attribute.String(log.KeyRequestURI, r.RequestURI),
				),
			)
			defer span.End()

			reqLogger := logger.With().
				Str(log.KeyRequestID, requestID).
				Dict(log.KeyRequest, zerolog.Dict().
					Str(log.KeyRequestHost, r.Host).
					Str(log.KeyRequestIp, r.RemoteAddr).
					Str(log.KeyRequestMethod, r.Method).
					Str(log.KeyRequestURI, r.RequestURI).
					Str(log.KeyRequestURL, r.URL.String())).
				Logger()

			reqLogger.Trace().Msg("attaching request value to context")
			c = log.AttachRequestIDToContext(c, requestID)
			c = reqLogger.WithContext(c)
			w.Header().Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
			reqLogger.Trace().Msg("attached request value to context")

			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
