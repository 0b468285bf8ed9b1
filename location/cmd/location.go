package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Alturino/cityat/internal/config"
	"github.com/Alturino/cityat/internal/constants"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/internal/server"
	"github.com/Alturino/cityat/internal/validate"
	"github.com/Alturino/cityat/location/internal/controller"
	"github.com/Alturino/cityat/location/internal/geo"
	locationOtel "github.com/Alturino/cityat/location/internal/otel"
	"github.com/Alturino/cityat/location/internal/repository"
	"github.com/Alturino/cityat/location/internal/service"
)

func RunLocationService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_LOCATION_SERVICE).
		Str(log.KeyTag, "main RunLocationService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	cfg, err := config.InitConfig(logger.WithContext(c), constants.APP_LOCATION_SERVICE)
	if err != nil {
		err = fmt.Errorf("failed initializing config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized config")

	serviceLogger, logWriter := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env)
	defer logWriter.Close()
	logger = serviceLogger.With().
		Str(log.KeyAppName, constants.APP_LOCATION_SERVICE).
		Str(log.KeyTag, "main RunLocationService").
		Logger()
	c = logger.WithContext(c)

	c, span := locationOtel.Tracer.Start(c, "RunLocationService")
	defer span.End()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(logger.WithContext(c), constants.APP_LOCATION_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			logger.Error().Err(err).Msgf("failed shutting down otel with error=%s", err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	cache, err := infra.NewCacheClient(logger.WithContext(c), cfg.Cache)
	if err != nil {
		err = fmt.Errorf("failed initializing cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cache.Close(); err != nil {
			logger.Error().Err(err).Msgf("failed shutting down cache with error=%s", err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	db, err := infra.NewDatabaseClient(logger.WithContext(c), cfg.Database)
	if err != nil {
		err = fmt.Errorf("failed initializing database with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(log.KeyProcess, "initializing location service").Logger()
	logger.Info().Msg("initializing location service")
	provider := geo.NewHTTPProvider(
		&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		cfg.Services.GeolocationURL,
	)
	locationService := service.NewLocationService(
		cache,
		cfg.Cache.TTL,
		repository.New(db),
		provider,
		cfg.Location.LookupTimeout,
	)
	logger.Info().Msg("initialized location service")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	root, api := server.NewRouter(constants.APP_LOCATION_SERVICE, cfg.Application.SecretKey, logger)
	controller.AttachLocationController(api, &locationService, validate.New())
	logger.Info().Msg("initialized router")

	return server.Run(logger.WithContext(c), cfg.Application, root)
}
