package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/cityat/internal/errors"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/otel"
)

const maxUpdateAttempts = 10

// Snapshots persists one JSON document of type T per key. A missing key
// loads as the value returned by newState.
type Snapshots[T any] struct {
	cache    *redis.Client
	ttl      time.Duration
	newState func() T
}

func NewSnapshots[T any](cache *redis.Client, ttl time.Duration, newState func() T) *Snapshots[T] {
	return &Snapshots[T]{cache: cache, ttl: ttl, newState: newState}
}

func (s *Snapshots[T]) decode(raw []byte, err error) (T, error) {
	state := s.newState()
	if errors.Is(err, redis.Nil) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("failed getting snapshot with error=%w", err)
	}
	if err = json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("failed unmarshaling snapshot with error=%w", err)
	}
	return state, nil
}

func (s *Snapshots[T]) Load(c context.Context, key string) (T, error) {
	c, span := otel.Tracer.Start(c, "Snapshots Load")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Snapshots Load").
		Str(log.KeyCacheKey, key).
		Logger()

	logger.Trace().Msg("loading snapshot")
	state, err := s.decode(s.cache.Get(c, key).Bytes())
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return state, err
	}
	logger.Trace().Msg("loaded snapshot")

	return state, nil
}

// Update loads the snapshot under WATCH, applies mutate and writes the result
// in a MULTI block. A concurrent writer aborts the transaction and the whole
// read-mutate-write cycle is retried.
func (s *Snapshots[T]) Update(
	c context.Context,
	key string,
	mutate func(state *T) error,
) (T, error) {
	c, span := otel.Tracer.Start(c, "Snapshots Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Snapshots Update").
		Str(log.KeyCacheKey, key).
		Logger()

	var result T
	txf := func(tx *redis.Tx) error {
		state, err := s.decode(tx.Get(c, key).Bytes())
		if err != nil {
			return err
		}
		if err = mutate(&state); err != nil {
			return err
		}
		raw, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed marshaling snapshot with error=%w", err)
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, key, raw, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = state
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.cache.Watch(c, txf, key)
		if err == nil {
			logger.Trace().Int(log.KeyAttempt, attempt).Msg("updated snapshot")
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug().Int(log.KeyAttempt, attempt).Msg("snapshot modified concurrently, retrying")
			continue
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return result, err
	}

	err := fmt.Errorf("failed updating snapshot after %d attempts with error=%w", maxUpdateAttempts, inErrors.ErrConflict)
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return result, err
}

func (s *Snapshots[T]) Delete(c context.Context, key string) error {
	c, span := otel.Tracer.Start(c, "Snapshots Delete")
	defer span.End()

	if err := s.cache.Del(c, key).Err(); err != nil {
		err = fmt.Errorf("failed deleting snapshot with error=%w", err)
		otel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyCacheKey, key).Msg(err.Error())
		return err
	}
	return nil
}
