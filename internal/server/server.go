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
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/metrics"
	"github.com/Alturino/pos/internal/middleware"
	"github.com/Alturino/pos/internal/otel"
)

// NewRouter returns a router carrying tracing, logging, panic recovery and request metrics, with
// /metrics served from reg. name must be a valid prometheus subsystem.
func NewRouter(name string, reg *prometheus.Registry) *mux.Router {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(fmt.Sprintf("%s-%s", otel.AppName, name)),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics(metrics.NewServerMetrics(reg, name)),
	)
	router.Handle("/metrics", metrics.Handler(reg)).Methods(http.MethodGet)
	return router
}

// Run serves handler on addr until c is canceled, then shuts down gracefully.
func Run(c context.Context, addr string, handler http.Handler) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "server Run").
		Str("addr", addr).
		Logger()

	httpServer := http.Server{
		Addr:         addr,
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str(log.KeyProcess, "start server").Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("error=%w occured while server is running", err)
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")
	return <-serveErr
}
