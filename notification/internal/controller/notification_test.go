package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/cityat/internal"
	"github.com/Alturino/cityat/internal/validate"
	"github.com/Alturino/cityat/notification/internal/service"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, c context.Context) (*mux.Router, func()) {
	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	client := redis.NewClient(redisOpt)
	if err = client.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	svc := service.NewNotificationService(client, time.Hour)
	router := mux.NewRouter()
	AttachNotificationController(router, &svc, validate.New())

	return router, func() {
		client.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

func newRequest(
	c context.Context,
	userID uuid.UUID,
	method string,
	target string,
	body interface{},
) *http.Request {
	payload := &bytes.Buffer{}
	if body != nil {
		_ = json.NewEncoder(payload).Encode(body)
	}
	r := httptest.NewRequest(method, target, payload)
	if userID != uuid.Nil {
		token := &jwt.Token{Claims: &jwt.RegisteredClaims{Subject: userID.String()}}
		c = internal.AttachJwtToken(c, token)
	}
	return r.WithContext(c)
}

func serve(t *testing.T, router *mux.Router, r *http.Request) envelope {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	res := envelope{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, w.Code, res.StatusCode)
	return res
}

func TestNotificationController(t *testing.T) {
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	router, teardown := setupRouter(t, c)
	defer teardown()

	t.Run("given no token should be unauthorized", func(t *testing.T) {
		res := serve(t, router, newRequest(c, uuid.Nil, http.MethodGet, "/notifications", nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("given invalid local notification should be bad request", func(t *testing.T) {
		res := serve(t, router, newRequest(c, uuid.New(), http.MethodPost, "/notifications", map[string]string{
			"type":  "unknown",
			"title": "hello",
		}))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("given malformed push should be bad request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/notifications/push", bytes.NewBufferString("{"))
		r = r.WithContext(internal.AttachJwtToken(c, &jwt.Token{
			Claims: &jwt.RegisteredClaims{Subject: uuid.NewString()},
		}))
		res := serve(t, router, r)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("given notifications should create and mark them read", func(t *testing.T) {
		userID := uuid.New()
		res := serve(t, router, newRequest(c, userID, http.MethodPost, "/notifications", map[string]string{
			"type":  "order_update",
			"title": "Order delivered",
		}))
		require.Equal(t, http.StatusCreated, res.StatusCode)
		created := struct {
			Notification struct {
				ID string `json:"id"`
			} `json:"notification"`
		}{}
		require.NoError(t, json.Unmarshal(res.Data, &created))

		res = serve(t, router, newRequest(c, userID, http.MethodPost, "/notifications/push", map[string]interface{}{
			"notification": map[string]string{"title": "Flash sale"},
		}))
		require.Equal(t, http.StatusCreated, res.StatusCode)

		res = serve(t, router, newRequest(c, userID, http.MethodPut, "/notifications/"+created.Notification.ID+"/read", nil))
		require.Equal(t, http.StatusOK, res.StatusCode)
		inbox := struct {
			Inbox struct {
				UnreadCount int `json:"unreadCount"`
			} `json:"inbox"`
		}{}
		require.NoError(t, json.Unmarshal(res.Data, &inbox))
		assert.Equal(t, 1, inbox.Inbox.UnreadCount)

		res = serve(t, router, newRequest(c, userID, http.MethodPut, "/notifications/read", nil))
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.NoError(t, json.Unmarshal(res.Data, &inbox))
		assert.Zero(t, inbox.Inbox.UnreadCount)
	})

	t.Run("given unknown notification should be not found", func(t *testing.T) {
		res := serve(t, router, newRequest(c, uuid.New(), http.MethodPut, "/notifications/missing/read", nil))
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
