package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartOtel "github.com/Alturino/cityat/cart/internal/otel"
	"github.com/Alturino/cityat/cart/internal/controller"
	"github.com/Alturino/cityat/cart/internal/service"
	"github.com/Alturino/cityat/internal/config"
	"github.com/Alturino/cityat/internal/constants"
	"github.com/Alturino/cityat/internal/infra"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/otel"
	"github.com/Alturino/cityat/internal/server"
	"github.com/Alturino/cityat/internal/validate"
)

const orderRequestTimeout = 10 * time.Second

func RunCartService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_CART_SERVICE).
		Str(log.KeyTag, "main RunCartService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	cfg, err := config.InitConfig(logger.WithContext(c), constants.APP_CART_SERVICE)
	if err != nil {
		err = fmt.Errorf("failed initializing config with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized config")

	serviceLogger, logWriter := log.InitLogger(cfg.Application.LogPath, cfg.Application.Env)
	defer logWriter.Close()
	logger = serviceLogger.With().
		Str(log.KeyAppName, constants.APP_CART_SERVICE).
		Str(log.KeyTag, "main RunCartService").
		Logger()
	c = logger.WithContext(c)

	c, span := cartOtel.Tracer.Start(c, "RunCartService")
	defer span.End()

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(logger.WithContext(c), constants.APP_CART_SERVICE, cfg.Otel)
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

	logger = logger.With().Str(log.KeyProcess, "initializing cart service").Logger()
	logger.Info().Msg("initializing cart service")
	orderClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   orderRequestTimeout,
	}
	cartService := service.NewCartService(cache, cfg.Cache.TTL, orderClient, cfg.Services.OrderURL)
	logger.Info().Msg("initialized cart service")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	root, api := server.NewRouter(constants.APP_CART_SERVICE, cfg.Application.SecretKey, logger)
	controller.AttachCartController(api, &cartService, validate.New())
	logger.Info().Msg("initialized router")

	return server.Run(logger.WithContext(c), cfg.Application, root)
}
