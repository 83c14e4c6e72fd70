package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/pos/internal/cache"
	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
)

func NewCacheClient(c context.Context, cfg config.Cache) (*redis.Client, error) {
	c, span := otel.Tracer.Start(c, "main NewCacheClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewCacheClient").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing redis client").Logger()
	logger.Info().Msg("initializing redis client")
	cache := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	logger.Info().Msg("initialized redis client")

	logger = logger.With().Str(log.KeyProcess, "initializing redis otel instrumentation").Logger()
	logger.Info().Msg("initializing redis otel instrumentation")
	if err := redisotel.InstrumentTracing(cache, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		err = fmt.Errorf("failed initializing otel redis tracing with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(cache, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		err = fmt.Errorf("failed initializing otel redis metric with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized redis otel instrumentation")

	logger = logger.With().Str(log.KeyProcess, "pinging connection to redis").Logger()
	logger.Info().Msg("pinging connection to redis")
	if err := cache.Ping(c).Err(); err != nil {
		_ = cache.Close()
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("pinged connection to redis")

	return cache, nil
}

// NewReportCache connects the report cache when cache.host is set. Without a host, or when redis
// cannot be reached, it returns a cache that always misses so sales and reports keep working.
func NewReportCache(c context.Context, cfg config.Cache) (*cache.ReportCache, CloseFunc) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main NewReportCache").
		Logger()

	noop := func(context.Context) error { return nil }
	if cfg.Host == "" {
		logger.Info().Msg("cache host not configured, report cache disabled")
		return cache.NewReportCache(nil, cfg.ReportTTL), noop
	}

	client, err := NewCacheClient(c, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("report cache disabled")
		return cache.NewReportCache(nil, cfg.ReportTTL), noop
	}
	return cache.NewReportCache(client, cfg.ReportTTL), func(context.Context) error { return client.Close() }
}
