package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/pos/cart/pkg/response"
	"github.com/Alturino/pos/internal/cache"
	inErrors "github.com/Alturino/pos/internal/errors"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/metrics"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/internal/repository"
	"github.com/Alturino/pos/sale/pkg/request"
	saleResponse "github.com/Alturino/pos/sale/pkg/response"
)

type SaleService struct {
	store    repository.TransactionStore
	cache    *cache.ReportCache
	metrics  *metrics.SaleMetrics
	validate *validator.Validate
	location *time.Location
	timeout  time.Duration
}

func NewSaleService(
	store repository.TransactionStore,
	reportCache *cache.ReportCache,
	saleMetrics *metrics.SaleMetrics,
	validate *validator.Validate,
	location *time.Location,
	timeout time.Duration,
) *SaleService {
	if location == nil {
		location = time.Local
	}
	return &SaleService{
		store:    store,
		cache:    reportCache,
		metrics:  saleMetrics,
		validate: validate,
		location: location,
		timeout:  timeout,
	}
}

// SubmitSale writes one transaction and never retries. Every failure wraps ErrSubmission.
func (svc *SaleService) SubmitSale(c context.Context, req request.SubmitSale) (saleResponse.Transaction, error) {
	c, span := otel.Tracer.Start(c, "SaleService SubmitSale")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "SaleService SubmitSale").
		Int(log.KeyCartLinesCount, len(req.Items)).
		Str(log.KeyCartTotal, req.TotalAmount.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "validating sale").Logger()
	logger.Trace().Msg("validating sale")
	if err := svc.validate.StructCtx(c, req); err != nil {
		err = fmt.Errorf("%w: %w: %w", inErrors.ErrSubmission, inErrors.ErrInvalidSale, err)
		svc.failed(span, logger, err)
		return saleResponse.Transaction{}, err
	}
	if total := response.Total(req.Items); !total.Equal(req.TotalAmount) {
		err := fmt.Errorf(
			"%w: %w: totalAmount=%s does not match items total=%s",
			inErrors.ErrSubmission,
			inErrors.ErrInvalidSale,
			req.TotalAmount,
			total,
		)
		svc.failed(span, logger, err)
		return saleResponse.Transaction{}, err
	}
	logger.Trace().Msg("validated sale")

	if svc.timeout > 0 {
		var cancel context.CancelFunc
		c, cancel = context.WithTimeout(c, svc.timeout)
		defer cancel()
	}

	logger = logger.With().Str(log.KeyProcess, "inserting transaction").Logger()
	logger.Info().Msg("inserting transaction")
	trx, err := svc.store.InsertTransaction(c, request.SubmitSale{
		Items:       response.CopyLines(req.Items),
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		err = fmt.Errorf("%w: failed inserting transaction with error=%w", inErrors.ErrSubmission, err)
		svc.failed(span, logger, err)
		return saleResponse.Transaction{}, err
	}
	span.SetAttributes(attribute.String(log.KeyTransactionID, trx.ID))
	logger = logger.With().Str(log.KeyTransactionID, trx.ID).Time("createdAt", trx.CreatedAt).Logger()
	logger.Info().Msg("inserted transaction")

	if svc.metrics != nil {
		svc.metrics.Submissions.WithLabelValues(metrics.StatusSuccess).Inc()
		svc.metrics.Amount.Observe(trx.TotalAmount.InexactFloat64())
	}

	date := civil.DateOf(trx.CreatedAt.In(svc.location))
	logger = logger.With().Str(log.KeyProcess, "invalidating cached report").Str(log.KeyDate, date.String()).Logger()
	logger.Trace().Msg("invalidating cached report")
	if err := svc.cache.Invalidate(context.WithoutCancel(c), date); err != nil {
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("invalidated cached report")
	}

	return trx, nil
}

func (svc *SaleService) failed(span trace.Span, logger zerolog.Logger, err error) {
	if svc.metrics != nil {
		svc.metrics.Submissions.WithLabelValues(metrics.StatusFailed).Inc()
	}
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
}
