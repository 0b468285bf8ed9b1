package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	inErrors "github.com/Alturino/cityat/internal/errors"
	"github.com/Alturino/cityat/notification/internal/push"
	"github.com/Alturino/cityat/notification/pkg/request"
)

func setupRedis(t *testing.T, c context.Context) (*redis.Client, func()) {
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

	return client, func() {
		client.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

func strPtr(s string) *string {
	return &s
}

func TestNotificationService(t *testing.T) {
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
	client, teardown := setupRedis(t, c)
	defer teardown()

	svc := NewNotificationService(client, time.Hour)

	t.Run("given unknown user should return empty inbox", func(t *testing.T) {
		inbox, err := svc.FindNotifications(c, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, inbox.Notifications)
		assert.Zero(t, inbox.UnreadCount)
	})

	t.Run("given local notifications should append unread in order", func(t *testing.T) {
		userID := uuid.New()
		first, err := svc.CreateLocalNotification(c, userID, request.LocalNotification{
			Type:    "order_update",
			Title:   "Order placed",
			Message: "your order is on its way",
		})
		require.NoError(t, err)
		assert.Equal(t, "order_update", first.Type)
		assert.False(t, first.IsRead)

		_, err = svc.CreateLocalNotification(c, userID, request.LocalNotification{
			Type:  "reminder",
			Title: "Come back",
		})
		require.NoError(t, err)

		inbox, err := svc.FindNotifications(c, userID)
		require.NoError(t, err)
		require.Len(t, inbox.Notifications, 2)
		assert.Equal(t, first.ID, inbox.Notifications[0].ID)
		assert.Equal(t, 2, inbox.UnreadCount)
	})

	t.Run("given remote message should fill defaults", func(t *testing.T) {
		userID := uuid.New()
		received, err := svc.ReceivePush(c, userID, request.RemoteMessage{
			MessageID: strPtr("msg-1"),
			Data:      map[string]string{"type": "payment", "deepLink": "cityat://orders/1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "msg-1", received.ID)
		assert.Equal(t, push.DefaultTitle, received.Title)
		assert.Equal(t, "payment", received.Type)
		require.NotNil(t, received.DeepLink)
		assert.Equal(t, "cityat://orders/1", *received.DeepLink)

		inbox, err := svc.FindNotifications(c, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, inbox.UnreadCount)
	})

	t.Run("given notification id should mark it read", func(t *testing.T) {
		userID := uuid.New()
		created, err := svc.CreateLocalNotification(c, userID, request.LocalNotification{
			Type:  "system",
			Title: "Maintenance",
		})
		require.NoError(t, err)
		_, err = svc.CreateLocalNotification(c, userID, request.LocalNotification{
			Type:  "promotional",
			Title: "Offer",
		})
		require.NoError(t, err)

		inbox, err := svc.MarkAsRead(c, userID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, inbox.UnreadCount)
		assert.True(t, inbox.Notifications[0].IsRead)
		assert.False(t, inbox.Notifications[1].IsRead)
	})

	t.Run("given unknown notification id should return not found", func(t *testing.T) {
		userID := uuid.New()
		_, err := svc.MarkAsRead(c, userID, "missing")
		assert.ErrorIs(t, err, inErrors.ErrNotificationNotFound)
	})

	t.Run("given unread notifications should mark all read", func(t *testing.T) {
		userID := uuid.New()
		for _, title := range []string{"a", "b", "c"} {
			_, err := svc.CreateLocalNotification(c, userID, request.LocalNotification{
				Type:  "system",
				Title: title,
			})
			require.NoError(t, err)
		}

		inbox, err := svc.MarkAllAsRead(c, userID)
		require.NoError(t, err)
		assert.Zero(t, inbox.UnreadCount)
		assert.Len(t, inbox.Notifications, 3)
	})

	t.Run("given concurrent pushes should keep every notification", func(t *testing.T) {
		userID := uuid.New()
		const pushes = 5
		errs := make(chan error, pushes)
		for range pushes {
			go func() {
				_, err := svc.ReceivePush(c, userID, request.RemoteMessage{})
				errs <- err
			}()
		}
		for range pushes {
			require.NoError(t, <-errs)
		}

		inbox, err := svc.FindNotifications(c, userID)
		require.NoError(t, err)
		assert.Len(t, inbox.Notifications, pushes)
	})
}
