package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/cityat/internal/constants"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/notification/internal/otel"
	"github.com/Alturino/cityat/notification/internal/service"
	"github.com/Alturino/cityat/notification/pkg/request"
)

type OrderListener struct {
	svc   *service.NotificationService
	cache *redis.Client
}

func NewOrderListener(svc *service.NotificationService, cache *redis.Client) *OrderListener {
	return &OrderListener{svc: svc, cache: cache}
}

// Start subscribes to the order placed channel and returns once the
// subscription is confirmed. Events are consumed on a separate goroutine
// until c is done.
func (l OrderListener) Start(c context.Context, wg *sync.WaitGroup) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListener Start").
		Str(log.KeyProcess, "subscribing order placed").
		Logger()

	logger.Info().Msg("subscribing order placed")
	sub := l.cache.Subscribe(c, constants.CHANNEL_ORDER_PLACED)
	if _, err := sub.Receive(c); err != nil {
		sub.Close()
		err = fmt.Errorf("failed subscribing order placed with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed order placed")

	wg.Add(1)
	go l.listen(logger.WithContext(c), sub, wg)
	return nil
}

func (l OrderListener) listen(c context.Context, sub *redis.PubSub, wg *sync.WaitGroup) {
	defer wg.Done()
	defer sub.Close()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "OrderListener listen").Logger()

	messages := sub.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped listening order placed")
			return
		case msg, ok := <-messages:
			if !ok {
				logger.Info().Msg("order placed channel closed")
				return
			}
			l.handle(c, msg)
		}
	}
}

func (l OrderListener) handle(c context.Context, msg *redis.Message) {
	requestID := uuid.NewString()
	c = log.AttachRequestIDToContext(c, requestID)
	c, span := otel.Tracer.Start(c, "OrderListener handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListener handle").
		Str(log.KeyRequestID, requestID).
		Str(log.KeyProcess, "decoding order placed").
		Logger()

	event := request.OrderPlaced{}
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		err = fmt.Errorf("failed decoding order placed with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger = logger.With().
		Str(log.KeyOrder, event.OrderID.String()).
		Str(log.KeyUserID, event.UserID.String()).
		Str(log.KeyProcess, "notifying order placed").
		Logger()

	logger.Info().Msg("notifying order placed")
	if _, err := l.svc.NotifyOrderPlaced(logger.WithContext(c), event); err != nil {
		err = fmt.Errorf("failed notifying order placed with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("notified order placed")
}
