package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/pos/internal/cache"
	inErrors "github.com/Alturino/pos/internal/errors"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/metrics"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/internal/repository"
	"github.com/Alturino/pos/report/pkg/response"
	saleResponse "github.com/Alturino/pos/sale/pkg/response"
)

const (
	sourceCache = "cache"
	sourceStore = "store"
	sourceError = "error"
)

type ReportService struct {
	store    repository.TransactionStore
	cache    *cache.ReportCache
	metrics  *metrics.ReportMetrics
	location *time.Location
	timeout  time.Duration
}

func NewReportService(
	store repository.TransactionStore,
	reportCache *cache.ReportCache,
	reportMetrics *metrics.ReportMetrics,
	location *time.Location,
	timeout time.Duration,
) *ReportService {
	if location == nil {
		location = time.Local
	}
	return &ReportService{
		store:    store,
		cache:    reportCache,
		metrics:  reportMetrics,
		location: location,
		timeout:  timeout,
	}
}

func (svc *ReportService) Location() *time.Location {
	return svc.location
}

// DayRange returns the first and last millisecond of date in loc.
func DayRange(date civil.Date, loc *time.Location) repository.CreatedAtRange {
	return repository.CreatedAtRange{
		Start: time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, loc),
		End:   time.Date(date.Year, date.Month, date.Day, 23, 59, 59, 999_000_000, loc),
	}
}

// SortNewestFirst orders by CreatedAt descending in place, keeping the relative order of equal timestamps.
func SortNewestFirst(trxs []saleResponse.Transaction) {
	sort.SliceStable(trxs, func(i, j int) bool {
		return trxs[i].CreatedAt.After(trxs[j].CreatedAt)
	})
}

func Aggregate(date civil.Date, trxs []saleResponse.Transaction) response.DayReport {
	report := response.EmptyDayReport(date)
	if len(trxs) > 0 {
		report.Transactions = trxs
	}
	total := decimal.Zero
	for _, trx := range trxs {
		total = total.Add(trx.TotalAmount)
	}
	report.TotalSold = total
	report.OrderCount = len(trxs)
	return report
}

// FindDayReport never fails loudly: on a store error it returns the empty report for date together
// with an error wrapping ErrQuery, so callers can render "no data".
func (svc *ReportService) FindDayReport(c context.Context, date civil.Date) (response.DayReport, error) {
	c, span := otel.Tracer.Start(c, "ReportService FindDayReport")
	defer span.End()

	span.SetAttributes(attribute.String(log.KeyDate, date.String()))
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ReportService FindDayReport").
		Str(log.KeyDate, date.String()).
		Logger()

	if !date.IsValid() {
		err := fmt.Errorf("%w: %w: date=%s", inErrors.ErrQuery, inErrors.ErrInvalidDate, date)
		svc.count(sourceError)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.EmptyDayReport(date), err
	}

	cacheKey := cache.ReportKey(date)
	logger = logger.With().Str(log.KeyCacheKey, cacheKey).Str(log.KeyProcess, "finding report in cache").Logger()
	logger.Trace().Msg("finding report in cache")
	report, err := svc.cache.Get(c, date)
	if err == nil {
		SortNewestFirst(report.Transactions)
		if report.Transactions == nil {
			report.Transactions = []saleResponse.Transaction{}
		}
		svc.count(sourceCache)
		logger.Info().Int(log.KeyOrderCount, report.OrderCount).Msg("found report in cache")
		return report, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("report not found in cache")
	}

	cacheable := true
	version, err := svc.cache.Version(c, date)
	if err != nil {
		cacheable = false
		logger.Warn().Err(err).Msg(err.Error())
	}

	queryCtx := c
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(c, svc.timeout)
		defer cancel()
	}

	dayRange := DayRange(date, svc.location)
	logger = logger.With().
		Time(log.KeyRangeStart, dayRange.Start).
		Time(log.KeyRangeEnd, dayRange.End).
		Str(log.KeyProcess, "finding transactions by day").
		Logger()
	logger.Info().Msg("finding transactions by day")
	trxs, err := svc.store.FindTransactionsByCreatedAt(queryCtx, dayRange)
	if err != nil {
		err = fmt.Errorf("%w: failed finding transactions with error=%w", inErrors.ErrQuery, err)
		svc.count(sourceError)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.EmptyDayReport(date), err
	}
	SortNewestFirst(trxs)
	report = Aggregate(date, trxs)
	svc.count(sourceStore)
	logger = logger.With().
		Int(log.KeyOrderCount, report.OrderCount).
		Str(log.KeyTotalSold, report.TotalSold.String()).
		Logger()
	logger.Info().Msg("found transactions by day")

	if !cacheable {
		return report, nil
	}
	if err := svc.cache.Set(c, report, version); errors.Is(err, cache.ErrStaleVersion) {
		logger.Debug().Err(err).Msg("skipped caching report invalidated during query")
	} else if err != nil {
		logger.Warn().Err(err).Msg(err.Error())
	}

	return report, nil
}

func (svc *ReportService) count(source string) {
	if svc.metrics == nil {
		return
	}
	svc.metrics.Queries.WithLabelValues(source).Inc()
}
