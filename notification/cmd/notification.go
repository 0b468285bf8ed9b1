package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Alturino/cityat/internal/config"
	"github.com/Alturino/cityat/internal/constants"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/internal/server"
	"github.com/Alturino/cityat/internal/validate"
	"github.com/Alturino/cityat/notification/internal/controller"
	"github.com/Alturino/cityat/notification/internal/listener"
	notificationOtel "github.com/Alturino/cityat/notification/internal/otel"
	"github.com/Alturino/cityat/notification/internal/service"
)

func RunNotificationService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_NOTIFICATION_SERVICE).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	cfg, err := config.InitConfig(logger.WithContext(c), constants.APP_NOTIFICATION_SERVICE)
	if err != nil {
		err = fmt.Errorf("failed initializing config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized config")

	serviceLogger, logWriter := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env)
	defer logWriter.Close()
	logger = serviceLogger.With().
		Str(log.KeyAppName, constants.APP_NOTIFICATION_SERVICE).
		Str(log.KeyTag, "main RunNotificationService").
		Logger()
	c = logger.WithContext(c)

	c, span := notificationOtel.Tracer.Start(c, "RunNotificationService")
	defer span.End()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(
		logger.WithContext(c),
		constants.APP_NOTIFICATION_SERVICE,
		cfg.Otel,
	)
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

	notificationService := service.NewNotificationService(cache, cfg.Cache.TTL)

	logger = logger.With().Str(log.KeyProcess, "starting order listener").Logger()
	logger.Info().Msg("starting order listener")
	listening, stopListening := context.WithCancel(c)
	wg := &sync.WaitGroup{}
	defer func() {
		stopListening()
		wg.Wait()
		logger.Info().Msg("stopped order listener")
	}()
	err = listener.NewOrderListener(&notificationService, cache).Start(logger.WithContext(listening), wg)
	if err != nil {
		err = fmt.Errorf("failed starting order listener with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("started order listener")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	root, api := server.NewRouter(constants.APP_NOTIFICATION_SERVICE, cfg.Application.SecretKey, logger)
	controller.AttachNotificationController(api, &notificationService, validate.New())
	logger.Info().Msg("initialized router")

	return server.Run(logger.WithContext(c), cfg.Application, root)
}
