// Package geo computes distances between coordinates and resolves the
// device position through a pluggable provider.
package geo

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/location/internal/otel"
	"github.com/Alturino/cityat/location/internal/state"
)

const (
	earthRadiusKm  = 6371
	DefaultTimeout = 15 * time.Second
)

type Provider interface {
	CurrentPosition(c context.Context) (*state.Location, error)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance is the great circle distance between a and b in kilometres.
func Distance(a, b state.Location) float64 {
	dLat := deg2rad(b.Latitude - a.Latitude)
	dLon := deg2rad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Latitude))*math.Cos(deg2rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Locate asks provider for the current position within timeout. Any failure,
// including the timeout or a canceled c, yields nil.
func Locate(c context.Context, provider Provider, timeout time.Duration) *state.Location {
	c, span := otel.Tracer.Start(c, "geo Locate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "geo Locate").
		Str(log.KeyProcess, "locating device").
		Logger()

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c, cancel := context.WithTimeout(c, timeout)
	defer cancel()

	logger.Info().Msg("locating device")
	location, err := provider.CurrentPosition(c)
	if err != nil {
		span.RecordError(err)
		logger.Warn().Err(err).Msg("failed locating device")
		return nil
	}
	if location == nil {
		logger.Warn().Msg("provider returned no position")
		return nil
	}
	logger.Info().Any(log.KeyLocation, location).Msg("located device")

	return location
}
