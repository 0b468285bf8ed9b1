package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/cityat/internal/errors"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/notification/internal/otel"
	"github.com/Alturino/cityat/notification/internal/push"
	"github.com/Alturino/cityat/notification/internal/state"
	"github.com/Alturino/cityat/notification/pkg/request"
	"github.com/Alturino/cityat/notification/pkg/response"
)

const keyInboxPrefix = "notifications:"

type NotificationService struct {
	inboxes *infra.Snapshots[state.Inbox]
	now     func() time.Time
}

func NewNotificationService(cache *redis.Client, ttl time.Duration) NotificationService {
	return NotificationService{
		inboxes: infra.NewSnapshots(cache, ttl, state.NewInbox),
		now:     time.Now,
	}
}

func inboxKey(userID uuid.UUID) string {
	return keyInboxPrefix + userID.String()
}

func (svc NotificationService) FindNotifications(
	c context.Context,
	userID uuid.UUID,
) (response.Inbox, error) {
	c, span := otel.Tracer.Start(c, "NotificationService FindNotifications")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService FindNotifications").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "finding notifications").
		Logger()

	logger.Info().Msg("finding notifications")
	inbox, err := svc.inboxes.Load(logger.WithContext(c), inboxKey(userID))
	if err != nil {
		err = fmt.Errorf("failed finding notifications with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Inbox{}, err
	}
	res := inbox.Response()
	logger.Info().Int(log.KeyUnreadCount, res.UnreadCount).Msg("found notifications")

	return res, nil
}

func (svc NotificationService) CreateLocalNotification(
	c context.Context,
	userID uuid.UUID,
	param request.LocalNotification,
) (response.Notification, error) {
	c, span := otel.Tracer.Start(c, "NotificationService CreateLocalNotification")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService CreateLocalNotification").
		Logger()

	notification := push.NewLocal(
		userID,
		state.ParseType(param.Type),
		param.Title,
		param.Message,
		param.Data,
		svc.now(),
	)
	return svc.add(logger.WithContext(c), span, notification)
}

func (svc NotificationService) ReceivePush(
	c context.Context,
	userID uuid.UUID,
	msg request.RemoteMessage,
) (response.Notification, error) {
	c, span := otel.Tracer.Start(c, "NotificationService ReceivePush")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService ReceivePush").
		Logger()

	return svc.add(logger.WithContext(c), span, push.FromRemote(userID, msg, svc.now()))
}

// NotifyOrderPlaced records an order update for the user that placed the
// order.
func (svc NotificationService) NotifyOrderPlaced(
	c context.Context,
	event request.OrderPlaced,
) (response.Notification, error) {
	c, span := otel.Tracer.Start(c, "NotificationService NotifyOrderPlaced")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService NotifyOrderPlaced").
		Str(log.KeyOrder, event.OrderID.String()).
		Logger()

	return svc.add(logger.WithContext(c), span, push.FromOrderPlaced(event, svc.now()))
}

func (svc NotificationService) add(
	c context.Context,
	span trace.Span,
	notification state.Notification,
) (response.Notification, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyUserID, notification.UserID.String()).
		Str(log.KeyNotificationID, notification.ID).
		Str(log.KeyNotificationType, string(notification.Type)).
		Str(log.KeyProcess, "adding notification").
		Logger()

	logger.Info().Msg("adding notification")
	_, err := svc.inboxes.Update(
		logger.WithContext(c),
		inboxKey(notification.UserID),
		func(inbox *state.Inbox) error {
			inbox.Add(notification)
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed adding notification with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Notification{}, err
	}
	logger.Info().Msg("added notification")

	return notification.Response(), nil
}

func (svc NotificationService) MarkAsRead(
	c context.Context,
	userID uuid.UUID,
	notificationID string,
) (response.Inbox, error) {
	c, span := otel.Tracer.Start(c, "NotificationService MarkAsRead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService MarkAsRead").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyNotificationID, notificationID).
		Str(log.KeyProcess, "marking notification as read").
		Logger()

	logger.Info().Msg("marking notification as read")
	inbox, err := svc.inboxes.Update(
		logger.WithContext(c),
		inboxKey(userID),
		func(inbox *state.Inbox) error {
			if !inbox.MarkAsRead(notificationID) {
				return fmt.Errorf("notificationId=%s %w", notificationID, inErrors.ErrNotificationNotFound)
			}
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed marking notification as read with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Inbox{}, err
	}
	logger.Info().Msg("marked notification as read")

	return inbox.Response(), nil
}

func (svc NotificationService) MarkAllAsRead(
	c context.Context,
	userID uuid.UUID,
) (response.Inbox, error) {
	c, span := otel.Tracer.Start(c, "NotificationService MarkAllAsRead")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NotificationService MarkAllAsRead").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "marking all notifications as read").
		Logger()

	logger.Info().Msg("marking all notifications as read")
	inbox, err := svc.inboxes.Update(
		logger.WithContext(c),
		inboxKey(userID),
		func(inbox *state.Inbox) error {
			inbox.MarkAllAsRead()
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed marking all notifications as read with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Inbox{}, err
	}
	logger.Info().Msg("marked all notifications as read")

	return inbox.Response(), nil
}
