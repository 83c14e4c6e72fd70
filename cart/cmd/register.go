package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Alturino/pos/cart/internal/controller"
	"github.com/Alturino/pos/cart/internal/session"
	"github.com/Alturino/pos/catalog"
	"github.com/Alturino/pos/internal/common/validate"
	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/infra"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/metrics"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/internal/server"
	saleService "github.com/Alturino/pos/sale/service"
)

const appName = "register"

// RunRegisterServer serves the catalog and the live cart of one register until c is canceled.
func RunRegisterServer(c context.Context, cfg *config.Config) error {
	c, span := otel.Tracer.Start(c, "RunRegisterServer")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, appName).
		Str(log.KeyTag, "main RunRegisterServer").
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

	logger = logger.With().Str(log.KeyProcess, "initializing location").Logger()
	location, err := cfg.Application.Location()
	if err != nil {
		err = fmt.Errorf("failed loading timezone with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Str("location", location.String()).Msg("initialized location")

	logger = logger.With().Str(log.KeyProcess, "initializing transaction store").Logger()
	logger.Info().Msg("initializing transaction store")
	store, closeStore, err := infra.NewTransactionStore(c, cfg)
	if err != nil {
		err = fmt.Errorf("failed initializing transaction store with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down transaction store")
		if err := closeStore(context.WithoutCancel(c)); err != nil {
			err = fmt.Errorf("failed shutting down transaction store with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown transaction store")
	}()
	logger.Info().Msg("initialized transaction store")

	logger = logger.With().Str(log.KeyProcess, "initializing report cache").Logger()
	logger.Info().Msg("initializing report cache")
	reportCache, closeCache := infra.NewReportCache(c, cfg.Cache)
	defer func() {
		if err := closeCache(context.WithoutCancel(c)); err != nil {
			logger.Error().Err(err).Msgf("failed shutting down cache with error=%s", err.Error())
		}
	}()
	logger.Info().Msg("initialized report cache")

	logger = logger.With().Str(log.KeyProcess, "initializing register session").Logger()
	logger.Info().Msg("initializing register session")
	reg := prometheus.NewRegistry()
	validator := validate.New()
	sales := saleService.NewSaleService(
		store,
		reportCache,
		metrics.NewSaleMetrics(reg),
		validator,
		location,
		cfg.Store.Timeout,
	)
	s := session.New(sales)
	defer s.Close(logger.WithContext(context.WithoutCancel(c)))
	logger.Info().Msg("initialized register session")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := server.NewRouter(appName, reg)
	controller.AttachCatalogController(router, catalog.Default())
	controller.AttachCartController(router, s, catalog.Default(), validator)
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	return server.Run(c, fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port), router)
}
