package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/cityat/internal"
	inHttp "github.com/Alturino/cityat/internal/http"
	"github.com/Alturino/cityat/internal/log"
	inOtel "github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/location/internal/otel"
	"github.com/Alturino/cityat/location/internal/service"
	"github.com/Alturino/cityat/location/pkg/request"
	"github.com/Alturino/cityat/location/pkg/response"
)

type LocationController struct {
	service  *service.LocationService
	validate *validator.Validate
}

func AttachLocationController(
	mux *mux.Router,
	service *service.LocationService,
	validate *validator.Validate,
) {
	controller := LocationController{service: service, validate: validate}

	router := mux.PathPrefix("/locations").Subrouter()
	router.HandleFunc("", controller.FindLocation).Methods(http.MethodGet)
	router.HandleFunc("/city", controller.SelectCity).Methods(http.MethodPut)
	router.HandleFunc("/current", controller.SetCurrentLocation).Methods(http.MethodPut)
	router.HandleFunc("/current/refresh", controller.RefreshCurrentLocation).
		Methods(http.MethodPost)
	router.HandleFunc("/enabled", controller.SetLocationEnabled).Methods(http.MethodPut)
	router.HandleFunc("/error", controller.ClearLocationError).Methods(http.MethodDelete)
	router.HandleFunc("/cities", controller.SearchCities).Methods(http.MethodGet)
	router.HandleFunc("/cities/nearest", controller.FindNearestCity).Methods(http.MethodGet)
}

func fail(
	c context.Context,
	w http.ResponseWriter,
	span trace.Span,
	logger zerolog.Logger,
	err error,
) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteError(c, w, inHttp.StatusCode(err), err)
}

// decode reads and validates the request body into dst. Malformed bodies are
// answered with 400 directly.
func (t LocationController) decode(
	c context.Context,
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	logger zerolog.Logger,
	dst interface{},
) bool {
	logger.Info().Msg("decoding request body")
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, http.StatusBadRequest, err)
		return false
	}
	logger.Info().Msg("decoded request body")

	logger.Info().Msg("validating request body")
	if err := t.validate.StructCtx(c, dst); err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed validating request body with error=%w", err))
		return false
	}
	logger.Info().Msg("validated request body")
	return true
}

// handleState decodes the request body into body when it is not nil, runs
// call for the authenticated user and writes the resulting location state.
func (t LocationController) handleState(
	w http.ResponseWriter,
	r *http.Request,
	tag string,
	message string,
	body interface{},
	call func(c context.Context, userId uuid.UUID) (response.LocationState, error),
) {
	c, span := otel.Tracer.Start(r.Context(), tag)
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, tag).Logger()

	if body != nil {
		l := logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
		if !t.decode(c, w, r, span, l, body) {
			return
		}
	}

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, tag).Logger()
	location, err := call(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}

	inHttp.WriteSuccess(c, w, message, map[string]interface{}{
		"location": location,
	})
}

func (t LocationController) FindLocation(w http.ResponseWriter, r *http.Request) {
	t.handleState(
		w,
		r,
		"LocationController FindLocation",
		"successfully found location",
		nil,
		t.service.FindLocation,
	)
}

func (t LocationController) SelectCity(w http.ResponseWriter, r *http.Request) {
	reqBody := request.SelectCity{}
	t.handleState(
		w,
		r,
		"LocationController SelectCity",
		"successfully selected city",
		&reqBody,
		func(c context.Context, userId uuid.UUID) (response.LocationState, error) {
			return t.service.SelectCity(c, userId, reqBody.CityID)
		},
	)
}

func (t LocationController) SetCurrentLocation(w http.ResponseWriter, r *http.Request) {
	reqBody := request.SetCurrentLocation{}
	t.handleState(
		w,
		r,
		"LocationController SetCurrentLocation",
		"successfully set current location",
		&reqBody,
		func(c context.Context, userId uuid.UUID) (response.LocationState, error) {
			return t.service.SetCurrentLocation(c, userId, reqBody)
		},
	)
}

func (t LocationController) RefreshCurrentLocation(w http.ResponseWriter, r *http.Request) {
	t.handleState(
		w,
		r,
		"LocationController RefreshCurrentLocation",
		"successfully refreshed current location",
		nil,
		t.service.RefreshCurrentLocation,
	)
}

func (t LocationController) SetLocationEnabled(w http.ResponseWriter, r *http.Request) {
	reqBody := request.SetLocationEnabled{}
	t.handleState(
		w,
		r,
		"LocationController SetLocationEnabled",
		"successfully set location enabled",
		&reqBody,
		func(c context.Context, userId uuid.UUID) (response.LocationState, error) {
			return t.service.SetLocationEnabled(c, userId, *reqBody.Enabled)
		},
	)
}

func (t LocationController) ClearLocationError(w http.ResponseWriter, r *http.Request) {
	t.handleState(
		w,
		r,
		"LocationController ClearLocationError",
		"successfully cleared location error",
		nil,
		t.service.ClearLocationError,
	)
}

func (t LocationController) SearchCities(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LocationController SearchCities")
	defer span.End()

	search := r.URL.Query().Get("search")
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "LocationController SearchCities").
		Str(log.KeySearch, search).
		Str(log.KeyProcess, "searching cities").
		Logger()

	logger.Info().Msg("searching cities")
	cities, err := t.service.SearchCities(logger.WithContext(c), search)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Int(log.KeyCityCount, len(cities)).Msg("searched cities")

	inHttp.WriteSuccess(c, w, "successfully searched cities", map[string]interface{}{
		"cities": cities,
	})
}

func (t LocationController) FindNearestCity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "LocationController FindNearestCity")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "LocationController FindNearestCity").Logger()

	logger = logger.With().Str(log.KeyProcess, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(log.KeyUserID, userId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "finding nearest city").Logger()
	logger.Info().Msg("finding nearest city")
	nearest, err := t.service.FindNearestCity(logger.WithContext(c), userId)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger.Info().Str(log.KeyCity, nearest.City.Name).Msg("found nearest city")

	inHttp.WriteSuccess(c, w, "successfully found nearest city", map[string]interface{}{
		"nearest": nearest,
	})
}
