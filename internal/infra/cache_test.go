package infra

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/pos/internal/cache"
	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/report/pkg/response"
)

func setupRedis(t *testing.T) config.Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := context.Background()

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	host, port, err := net.SplitHostPort(redisOpt.Addr)
	if err != nil {
		t.Fatalf("failed splitting redis address with error: %s", err)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		t.Fatalf("failed parsing redis port with error: %s", err)
	}

	return config.Cache{Host: host, Port: uint16(p), ReportTTL: time.Minute}
}

func TestNewReportCache(t *testing.T) {
	c := context.Background()
	date := civil.Date{Year: 2024, Month: time.November, Day: 28}

	t.Run("given reachable redis should keep reports until deleted", func(t *testing.T) {
		cfg := setupRedis(t)

		reportCache, closeFn := NewReportCache(c, cfg)
		t.Cleanup(func() { assert.NoError(t, closeFn(c)) })

		require.NoError(t, reportCache.Set(c, response.EmptyDayReport(date), 0))
		report, err := reportCache.Get(c, date)
		require.NoError(t, err)
		assert.Equal(t, date, report.Date)

		require.NoError(t, reportCache.Invalidate(c, date))
		_, err = reportCache.Get(c, date)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})

	t.Run("given no host should return a cache that always misses", func(t *testing.T) {
		reportCache, closeFn := NewReportCache(c, config.Cache{})

		require.NoError(t, reportCache.Set(c, response.EmptyDayReport(date), 0))
		_, err := reportCache.Get(c, date)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
		assert.NoError(t, closeFn(c))
	})

	t.Run("given unreachable redis should fall back to a cache that always misses", func(t *testing.T) {
		reportCache, closeFn := NewReportCache(c, config.Cache{Host: "127.0.0.1", Port: 1})

		_, err := reportCache.Get(c, date)
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
		assert.NoError(t, closeFn(c))
	})
}
