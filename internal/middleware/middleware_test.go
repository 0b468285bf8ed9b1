package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/cityat/internal"
	"github.com/Alturino/cityat/internal/constants"
	inHttp "github.com/Alturino/cityat/internal/http"
)

const secret = "secret"

func newRouter(reg prometheus.Registerer) *mux.Router {
	router := mux.NewRouter()
	router.Use(
		Logging(zerolog.Nop()),
		RecoverPanic,
		NewMetrics(reg, "test").Middleware,
		Auth(secret),
	)
	router.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		userId, err := internal.UserIdFromJwtToken(r.Context())
		if err != nil {
			inHttp.WriteError(r.Context(), w, http.StatusUnauthorized, err)
			return
		}
		w.Write([]byte(userId.String()))
	})
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return router
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    constants.APP_USER_SERVICE,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{constants.AUDIENCE_USER},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed signing token with error: %s", err)
	}
	return "Bearer " + token
}

func TestAuth(t *testing.T) {
	userId := uuid.New()
	tests := []struct {
		name           string
		authorization  string
		expectedStatus int
		expectedBody   string
	}{
		{name: "given no authorization should return unauthorized", expectedStatus: http.StatusUnauthorized},
		{name: "given malformed authorization should return unauthorized", authorization: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "given invalid token should return unauthorized", authorization: "Bearer abc", expectedStatus: http.StatusUnauthorized},
		{name: "given valid token should reach handler", authorization: bearer(t, userId.String()), expectedStatus: http.StatusOK, expectedBody: userId.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(prometheus.NewRegistry())
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authorization != "" {
				req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, tt.authorization)
			}
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, req)

			assert.EqualValues(t, tt.expectedStatus, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get(inHttp.KEY_HEADER_REQUEST_ID))
			if tt.expectedBody != "" {
				assert.EqualValues(t, tt.expectedBody, recorder.Body.String())
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	router := newRouter(prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(inHttp.KEY_HEADER_AUTHORIZATION, bearer(t, uuid.NewString()))
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	assert.EqualValues(t, http.StatusInternalServerError, recorder.Code)
	assert.True(t, strings.Contains(recorder.Body.String(), "internal server error"))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newRouter(reg)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, "request-1")

	router.ServeHTTP(httptest.NewRecorder(), req)

	count, err := testutil.GatherAndCount(reg, "cityat_http_requests_total")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
