package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/cityat/internal/errors"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/location/internal/geo"
	"github.com/Alturino/cityat/location/internal/otel"
	"github.com/Alturino/cityat/location/internal/repository"
	"github.com/Alturino/cityat/location/internal/state"
	"github.com/Alturino/cityat/location/pkg/request"
	"github.com/Alturino/cityat/location/pkg/response"
)

const (
	keyLocationPrefix       = "locations:"
	messageLocationNotFound = "unable to determine current location"
)

type LocationService struct {
	locations     *infra.Snapshots[state.LocationState]
	queries       *repository.Queries
	provider      geo.Provider
	lookupTimeout time.Duration
}

func NewLocationService(
	cache *redis.Client,
	ttl time.Duration,
	queries *repository.Queries,
	provider geo.Provider,
	lookupTimeout time.Duration,
) LocationService {
	return LocationService{
		locations:     infra.NewSnapshots(cache, ttl, state.NewLocationState),
		queries:       queries,
		provider:      provider,
		lookupTimeout: lookupTimeout,
	}
}

func locationKey(userID uuid.UUID) string {
	return keyLocationPrefix + userID.String()
}

func (svc LocationService) FindLocation(
	c context.Context,
	userID uuid.UUID,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService FindLocation")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService FindLocation").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyProcess, "finding location").
		Logger()

	logger.Info().Msg("finding location")
	location, err := svc.locations.Load(logger.WithContext(c), locationKey(userID))
	if err != nil {
		err = fmt.Errorf("failed finding location with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.LocationState{}, err
	}
	logger.Info().Msg("found location")

	return location.Response(), nil
}

func (svc LocationService) SelectCity(
	c context.Context,
	userID uuid.UUID,
	cityID string,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService SelectCity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService SelectCity").
		Str(log.KeyUserID, userID.String()).
		Str(log.KeyCityID, cityID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding city").Logger()
	logger.Info().Msg("finding city")
	city, err := svc.queries.FindCityById(c, cityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCityNotFound
		}
		err = fmt.Errorf("failed finding cityId=%s with error=%w", cityID, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.LocationState{}, err
	}
	logger.Info().Str(log.KeyCity, city.Name).Msg("found city")

	return svc.update(logger.WithContext(c), span, userID, "selecting city", func(s *state.LocationState) {
		s.SetSelectedCity(city.StateCity())
	})
}

func (svc LocationService) SetCurrentLocation(
	c context.Context,
	userID uuid.UUID,
	param request.SetCurrentLocation,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService SetCurrentLocation")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService SetCurrentLocation").
		Str(log.KeyUserID, userID.String()).
		Logger()

	now := time.Now()
	location := state.Location{
		Latitude:  param.Latitude,
		Longitude: param.Longitude,
		Accuracy:  param.Accuracy,
		Timestamp: &now,
	}
	return svc.update(logger.WithContext(c), span, userID, "setting current location", func(s *state.LocationState) {
		s.SetCurrentLocation(location)
	})
}

// RefreshCurrentLocation marks the location as loading, asks the provider for
// the device position and records either the position or an error. The final
// write is detached from c so a canceled request never leaves the state
// loading.
func (svc LocationService) RefreshCurrentLocation(
	c context.Context,
	userID uuid.UUID,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService RefreshCurrentLocation")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService RefreshCurrentLocation").
		Str(log.KeyUserID, userID.String()).
		Logger()
	c = logger.WithContext(c)

	_, err := svc.update(c, span, userID, "marking location loading", func(s *state.LocationState) {
		s.SetLoading(true)
	})
	if err != nil {
		return response.LocationState{}, err
	}

	location := geo.Locate(c, svc.provider, svc.lookupTimeout)

	return svc.update(context.WithoutCancel(c), span, userID, "recording location lookup", func(s *state.LocationState) {
		if location == nil {
			s.SetError(messageLocationNotFound)
			return
		}
		s.SetCurrentLocation(*location)
		s.SetLoading(false)
	})
}

func (svc LocationService) SetLocationEnabled(
	c context.Context,
	userID uuid.UUID,
	enabled bool,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService SetLocationEnabled")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService SetLocationEnabled").
		Str(log.KeyUserID, userID.String()).
		Logger()

	return svc.update(logger.WithContext(c), span, userID, "setting location enabled", func(s *state.LocationState) {
		s.SetEnabled(enabled)
	})
}

func (svc LocationService) ClearLocationError(
	c context.Context,
	userID uuid.UUID,
) (response.LocationState, error) {
	c, span := otel.Tracer.Start(c, "LocationService ClearLocationError")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService ClearLocationError").
		Str(log.KeyUserID, userID.String()).
		Logger()

	return svc.update(logger.WithContext(c), span, userID, "clearing location error", func(s *state.LocationState) {
		s.ClearError()
	})
}

func (svc LocationService) update(
	c context.Context,
	span trace.Span,
	userID uuid.UUID,
	process string,
	mutate func(s *state.LocationState),
) (response.LocationState, error) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, process).Logger()

	logger.Info().Msg(process)
	location, err := svc.locations.Update(
		logger.WithContext(c),
		locationKey(userID),
		func(s *state.LocationState) error {
			mutate(s)
			return nil
		},
	)
	if err != nil {
		err = fmt.Errorf("failed %s with error=%w", process, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.LocationState{}, err
	}
	logger.Info().Msg("done " + process)

	return location.Response(), nil
}

func (svc LocationService) SearchCities(c context.Context, search string) ([]response.City, error) {
	c, span := otel.Tracer.Start(c, "LocationService SearchCities")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService SearchCities").
		Str(log.KeySearch, search).
		Str(log.KeyProcess, "searching cities").
		Logger()

	logger.Info().Msg("searching cities")
	cities, err := svc.queries.SearchCities(c, search)
	if err != nil {
		err = fmt.Errorf("failed searching cities with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(log.KeyCityCount, len(cities)).Msg("searched cities")

	res := make([]response.City, len(cities))
	for i, city := range cities {
		res[i] = city.StateCity().Response()
	}
	return res, nil
}

// FindNearestCity returns the serviceable city closest to the user's current
// location.
func (svc LocationService) FindNearestCity(
	c context.Context,
	userID uuid.UUID,
) (response.NearestCity, error) {
	c, span := otel.Tracer.Start(c, "LocationService FindNearestCity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationService FindNearestCity").
		Str(log.KeyUserID, userID.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding current location").Logger()
	logger.Info().Msg("finding current location")
	location, err := svc.locations.Load(logger.WithContext(c), locationKey(userID))
	if err != nil {
		err = fmt.Errorf("failed finding location with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.NearestCity{}, err
	}
	if location.CurrentLocation == nil {
		err = fmt.Errorf("failed finding nearest city with error=%w", inErrors.ErrLocationUnavailable)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.NearestCity{}, err
	}
	logger.Info().Msg("found current location")

	logger = logger.With().Str(log.KeyProcess, "finding serviceable cities").Logger()
	logger.Info().Msg("finding serviceable cities")
	cities, err := svc.queries.FindServiceableCities(c)
	if err != nil {
		err = fmt.Errorf("failed finding serviceable cities with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.NearestCity{}, err
	}
	if len(cities) == 0 {
		err = fmt.Errorf("failed finding nearest city with error=%w", inErrors.ErrCityNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.NearestCity{}, err
	}

	nearest := response.NearestCity{DistanceKm: math.Inf(1)}
	for _, city := range cities {
		candidate := city.StateCity()
		distance := geo.Distance(*location.CurrentLocation, candidate.Coordinates)
		if distance < nearest.DistanceKm {
			nearest = response.NearestCity{City: candidate.Response(), DistanceKm: distance}
		}
	}
	logger.Info().Str(log.KeyCity, nearest.City.Name).Msg("found nearest city")

	return nearest, nil
}
