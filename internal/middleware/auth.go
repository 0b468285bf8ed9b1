package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/cityat/internal"
	inErrors "github.com/Alturino/cityat/internal/errors"
	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
)

func Auth(secretKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Auth").
				Logger()
			c := logger.WithContext(r.Context())

			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			if len(authorization) <= len(inHttp.VALUE_BEARER_PREFIX) ||
				!strings.EqualFold(authorization[:len(inHttp.VALUE_BEARER_PREFIX)], inHttp.VALUE_BEARER_PREFIX) {
				logger.Error().Err(inErrors.ErrEmptyAuth).Msg(inErrors.ErrEmptyAuth.Error())
				inHttp.WriteError(c, w, http.StatusUnauthorized, inErrors.ErrEmptyAuth)
				return
			}

			token := authorization[len(inHttp.VALUE_BEARER_PREFIX):]
			jwtToken, err := internal.VerifyToken(c, token, secretKey)
			if err != nil {
				err = fmt.Errorf("failed verifying token with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteError(c, w, http.StatusUnauthorized, inErrors.ErrTokenInvalid)
				return
			}

			c = internal.AttachJwtToken(c, jwtToken)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
