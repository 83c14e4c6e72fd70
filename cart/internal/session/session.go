package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/pos/cart/pkg/response"
	"github.com/Alturino/pos/catalog"
	inErrors "github.com/Alturino/pos/internal/errors"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/internal/otel"
	"github.com/Alturino/pos/sale/pkg/request"
	saleResponse "github.com/Alturino/pos/sale/pkg/response"
)

type Submitter interface {
	SubmitSale(c context.Context, req request.SubmitSale) (saleResponse.Transaction, error)
}

type Result struct {
	Transaction saleResponse.Transaction
	Submitted   bool
}

// Session owns the single live cart of a register. Lines keep first-add order.
type Session struct {
	submitter  Submitter
	lines      []response.CartLine
	mu         sync.Mutex
	submitting atomic.Bool
}

func New(submitter Submitter) *Session {
	return &Session{submitter: submitter, lines: []response.CartLine{}}
}

func (s *Session) AddItem(c context.Context, item catalog.Item) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session AddItem").
		Str(log.KeyProductID, item.ID).
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == item.ID {
			s.lines[i].Quantity++
			logger.Debug().Int("quantity", s.lines[i].Quantity).Msgf("incremented productId=%s", item.ID)
			return
		}
	}
	s.lines = append(s.lines, response.CartLine{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  1,
	})
	logger.Debug().Int(log.KeyCartLinesCount, len(s.lines)).Msgf("appended productId=%s", item.ID)
}

func (s *Session) Clear(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session Clear").
		Logger()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting.Load() {
		err := fmt.Errorf("failed clearing cart with error=%w", inErrors.ErrSubmissionInFlight)
		logger.Warn().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().Int(log.KeyCartLinesCount, len(s.lines)).Msg("clearing cart")
	s.lines = s.lines[:0]
	logger.Info().Msg("cleared cart")
	return nil
}

func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return response.Total(s.lines)
}

func (s *Session) Lines() []response.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return response.CopyLines(s.lines)
}

func (s *Session) Submitting() bool {
	return s.submitting.Load()
}

// Cart returns lines and total read under the same lock.
func (s *Session) Cart() response.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return response.Cart{
		Lines:      response.CopyLines(s.lines),
		Total:      response.Total(s.lines),
		Submitting: s.submitting.Load(),
	}
}

// Submit persists a snapshot of the cart. An empty cart is a no-op. On failure the cart is left as it
// was; on success the submitted quantities are taken out of the cart.
func (s *Session) Submit(c context.Context) (Result, error) {
	c, span := otel.Tracer.Start(c, "Session Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session Submit").
		Logger()

	if !s.submitting.CompareAndSwap(false, true) {
		err := fmt.Errorf("failed submitting cart with error=%w", inErrors.ErrSubmissionInFlight)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return Result{}, err
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	snapshot := response.CopyLines(s.lines)
	s.mu.Unlock()

	if len(snapshot) == 0 {
		logger.Info().Msg("cart is empty, nothing to submit")
		return Result{}, nil
	}

	total := response.Total(snapshot)
	span.SetAttributes(
		attribute.Int(log.KeyCartLinesCount, len(snapshot)),
		attribute.String(log.KeyCartTotal, total.String()),
	)
	logger = logger.With().
		Int(log.KeyCartLinesCount, len(snapshot)).
		Str(log.KeyCartTotal, total.String()).
		Str(log.KeyProcess, "submitting sale").
		Logger()

	logger.Info().Msg("submitting sale")
	trx, err := s.submitter.SubmitSale(c, request.SubmitSale{Items: snapshot, TotalAmount: total})
	if err != nil {
		if !errors.Is(err, inErrors.ErrSubmission) {
			err = fmt.Errorf("%w: %w", inErrors.ErrSubmission, err)
		}
		err = fmt.Errorf("failed submitting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Result{}, err
	}
	logger.Info().Str(log.KeyTransactionID, trx.ID).Msg("submitted sale")

	s.mu.Lock()
	s.lines = subtract(s.lines, snapshot)
	s.mu.Unlock()

	return Result{Transaction: trx, Submitted: true}, nil
}

// Close logs whatever was never submitted. The session must not be used afterwards.
func (s *Session) Close(c context.Context) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Session Close").
		Logger()

	lines := s.Lines()
	if len(lines) == 0 {
		logger.Info().Msg("closed session with empty cart")
		return
	}
	logger.Warn().
		Int(log.KeyCartLinesCount, len(lines)).
		Str(log.KeyCartTotal, response.Total(lines).String()).
		Msg("closed session with unsubmitted cart")
}

func subtract(lines []response.CartLine, submitted []response.CartLine) []response.CartLine {
	sold := make(map[string]int, len(submitted))
	for _, line := range submitted {
		sold[line.ID] += line.Quantity
	}
	remaining := lines[:0]
	for _, line := range lines {
		line.Quantity -= sold[line.ID]
		if line.Quantity > 0 {
			remaining = append(remaining, line)
		}
	}
	return remaining
}
