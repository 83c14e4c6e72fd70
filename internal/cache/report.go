package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"

	"github.com/Alturino/pos/report/pkg/response"
)

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrStaleVersion = errors.New("report version changed")
)

const minVersionTTL = 48 * time.Hour

// ReportCache keeps day reports keyed by calendar date. A nil client behaves as an always empty cache.
type ReportCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewReportCache(client *redis.Client, baseTTL time.Duration) *ReportCache {
	return &ReportCache{client: client, baseTTL: baseTTL}
}

func ReportKey(date civil.Date) string {
	return fmt.Sprintf("reports:%s", date.String())
}

func VersionKey(date civil.Date) string {
	return fmt.Sprintf("reports:%s:version", date.String())
}

func (r *ReportCache) Get(c context.Context, date civil.Date) (response.DayReport, error) {
	if r == nil || r.client == nil {
		return response.DayReport{}, ErrCacheMiss
	}

	data, err := r.client.Get(c, ReportKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return response.DayReport{}, ErrCacheMiss
	}
	if err != nil {
		return response.DayReport{}, fmt.Errorf("failed getting report from redis with error=%w", err)
	}

	report := response.DayReport{}
	if err = json.Unmarshal(data, &report); err != nil {
		return response.DayReport{}, fmt.Errorf("failed unmarshaling cached report with error=%w", err)
	}
	return report, nil
}

// Version returns the invalidation counter of date. Reports are only cached against the version
// read before the store was queried.
func (r *ReportCache) Version(c context.Context, date civil.Date) (int64, error) {
	if r == nil || r.client == nil {
		return 0, nil
	}
	version, err := r.client.Get(c, VersionKey(date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed getting report version from redis with error=%w", err)
	}
	return version, nil
}

// Set stores report only while the version of its date still equals version.
func (r *ReportCache) Set(c context.Context, report response.DayReport, version int64) error {
	if r == nil || r.client == nil {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed marshaling report with error=%w", err)
	}

	versionKey := VersionKey(report.Date)
	ttl := r.baseTTL + jitter(r.baseTTL)
	err = r.client.Watch(c, func(tx *redis.Tx) error {
		current, err := tx.Get(c, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return ErrStaleVersion
		}
		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.Set(c, ReportKey(report.Date), data, ttl)
			return nil
		})
		return err
	}, versionKey)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStaleVersion), errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("failed setting report of date=%s with error=%w", report.Date, ErrStaleVersion)
	default:
		return fmt.Errorf("failed setting report to redis with error=%w", err)
	}
}

// Invalidate bumps the version of date and drops its cached report, so a report read from the store
// before this call can no longer be cached.
func (r *ReportCache) Invalidate(c context.Context, date civil.Date) error {
	if r == nil || r.client == nil {
		return nil
	}
	_, err := r.client.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.Incr(c, VersionKey(date))
		pipe.Expire(c, VersionKey(date), r.versionTTL())
		pipe.Del(c, ReportKey(date))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed invalidating report in redis with error=%w", err)
	}
	return nil
}

// versionTTL keeps the counter alive well past any report entry of the same date.
func (r *ReportCache) versionTTL() time.Duration {
	if ttl := 4 * r.baseTTL; ttl > minVersionTTL {
		return ttl
	}
	return minVersionTTL
}

// jitter spreads expirations over up to a fifth of the base ttl.
func jitter(base time.Duration) time.Duration {
	spread := int64(base / 5)
	if spread <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(spread))
}
