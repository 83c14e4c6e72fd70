package cmd

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Alturino/pos/internal/common/validate"
	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/infra"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/metrics"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/internal/server"
	"github.com/Alturino/pos/report/internal/board"
	"github.com/Alturino/pos/report/internal/controller"
	"github.com/Alturino/pos/report/internal/service"
)

const appName = "admin"

// RunAdminServer serves day reports and the admin board until c is canceled.
func RunAdminServer(c context.Context, cfg *config.Config) error {
	c, span := otel.Tracer.Start(c, "RunAdminServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, appName).
		Str(log.KeyTag, "main RunAdminServer").
		Logger()
	c = logger.WithContext(c)

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	otelShutdowns, err := otel.InitOtelSdk(c, fmt.Sprintf("%s-%s", otel.AppName, appName), cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	reg := prometheus.NewRegistry()
	reportService, closeFn, err := newReportService(c, cfg, metrics.NewReportMetrics(reg))
	if err != nil {
		otel.RecordError(err, span)
		return err
	}
	defer closeFn()

	logger = logger.With().Str(log.KeyProcess, "initializing board").Logger()
	logger.Info().Msg("initializing board")
	today := civil.DateOf(time.Now().In(reportService.Location()))
	b := board.New(reportService, today)
	b.Refresh(c)
	logger.Info().Str(log.KeyDate, today.String()).Msg("initialized board")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := server.NewRouter(appName, reg)
	controller.AttachReportController(router, reportService, b, validate.New())
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	return server.Run(c, fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.AdminPort), router)
}

// newReportService opens the store and the report cache. The returned func releases both.
func newReportService(
	c context.Context,
	cfg *config.Config,
	reportMetrics *metrics.ReportMetrics,
) (*service.ReportService, func(), error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main newReportService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing location").Logger()
	location, err := cfg.Application.Location()
	if err != nil {
		err = fmt.Errorf("failed loading timezone with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, nil, err
	}
	logger.Info().Str("location", location.String()).Msg("initialized location")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction store").Logger()
	logger.Info().Msg("initializing transaction store")
	store, closeStore, err := infra.NewTransactionStore(c, cfg)
	if err != nil {
		err = fmt.Errorf("failed initializing transaction store with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, nil, err
	}
	logger.Info().Msg("initialized transaction store")

	logger = logger.With().Str(log.KeyProcess, "initializing report cache").Logger()
	reportCache, closeCache := infra.NewReportCache(c, cfg.Cache)

	closeFn := func() {
		c := context.WithoutCancel(c)
		if err := closeCache(c); err != nil {
			logger.Error().Err(err).Msgf("failed shutting down cache with error=%s", err.Error())
		}
		if err := closeStore(c); err != nil {
			logger.Error().Err(err).Msgf("failed shutting down transaction store with error=%s", err.Error())
		}
	}
	return service.NewReportService(store, reportCache, reportMetrics, location, cfg.Store.Timeout), closeFn, nil
}
