package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/cityat/internal/config"
	"github.com/Alturino/cityat/internal/log"
	"github.com/Alturino/cityat/internal/middleware"
	"github.com/Alturino/cityat/internal/otel"
)

const shutdownTimeout = 10 * time.Second

// NewRouter returns the root router serving /metrics and an authenticated
// subrouter that services attach their controllers to.
func NewRouter(appName string, secretKey string, logger zerolog.Logger) (root *mux.Router, api *mux.Router) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	root = mux.NewRouter()
	root.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})).
		Methods(http.MethodGet)

	api = root.PathPrefix("/").Subrouter()
	api.Use(
		otelmux.Middleware(appName),
		middleware.Logging(logger),
		middleware.RecoverPanic,
		middleware.NewMetrics(registry, appName).Middleware,
		middleware.Auth(secretKey),
	)
	return root, api
}

// Run serves handler until c is cancelled or the listener fails, then shuts
// the server down gracefully.
func Run(c context.Context, cfg config.Application, handler http.Handler) error {
	c, span := otel.Tracer.Start(c, "server Run")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(log.KeyTag, "server Run").Logger()

	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(c) },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str(log.KeyProcess, "start server").Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("error=%w occured while server is running", err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		return nil
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")

	return nil
}
