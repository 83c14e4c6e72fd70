package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/Alturino/pos/internal/errors"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/report/pkg/response"
)

type Querier interface {
	FindDayReport(c context.Context, date civil.Date) (response.DayReport, error)
}

type State struct {
	Date              civil.Date         `json:"date"`
	Report            response.DayReport `json:"report"`
	AverageOrderValue decimal.Decimal    `json:"average_order_value"`
	Error             string             `json:"error,omitempty"`
	Loading           bool               `json:"loading"`
	NoData            bool               `json:"no_data"`
}

// Board is the admin view of one selected day. Only the response for the currently selected date
// is ever committed.
type Board struct {
	querier  Querier
	selected civil.Date
	report   response.DayReport
	errMsg   string
	seq      uint64
	mu       sync.Mutex
	loading  bool
	noData   bool
}

func New(querier Querier, today civil.Date) *Board {
	return &Board{
		querier:  querier,
		selected: today,
		report:   response.EmptyDayReport(today),
	}
}

func (b *Board) Select(c context.Context, date civil.Date) (civil.Date, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Board Select").
		Str(log.KeyDate, date.String()).
		Logger()

	if !date.IsValid() {
		err := fmt.Errorf("failed selecting date=%s with error=%w", date, inErrors.ErrInvalidDate)
		logger.Error().Err(err).Msg(err.Error())
		return civil.Date{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.selectLocked(date)
	logger.Info().Msg("selected date")
	return date, nil
}

func (b *Board) Shift(c context.Context, days int) civil.Date {
	b.mu.Lock()
	defer b.mu.Unlock()

	date := b.selected.AddDays(days)
	b.selectLocked(date)
	zerolog.Ctx(c).Info().
		Str(log.KeyTag, "Board Shift").
		Int("days", days).
		Str(log.KeyDate, date.String()).
		Msg("shifted date")
	return date
}

func (b *Board) selectLocked(date civil.Date) {
	if date == b.selected {
		return
	}
	b.selected = date
	b.report = response.EmptyDayReport(date)
	b.noData = false
	b.errMsg = ""
}

// Refresh queries the selected date. A response that arrives after the selection moved on is
// dropped, and only the latest refresh clears Loading. The returned state is read after Loading is
// settled.
func (b *Board) Refresh(c context.Context) (state State) {
	b.mu.Lock()
	date := b.selected
	b.seq++
	seq := b.seq
	b.loading = true
	b.mu.Unlock()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Board Refresh").
		Str(log.KeyDate, date.String()).
		Uint64("seq", seq).
		Logger()

	defer func() {
		b.finish(seq)
		state = b.State()
	}()

	logger.Info().Msg("refreshing report")
	report, err := b.querier.FindDayReport(c, date)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected != date {
		logger.Info().Msg("dropped stale report")
		return
	}
	b.report = report
	b.noData = err != nil || report.OrderCount == 0
	b.errMsg = ""
	if err != nil {
		b.errMsg = noDataMessage(err)
	}
	logger.Info().Int(log.KeyOrderCount, report.OrderCount).Msg("refreshed report")
	return
}

// finish clears Loading when seq is still the latest refresh.
func (b *Board) finish(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq == seq {
		b.loading = false
	}
}

func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Date:              b.selected,
		Report:            b.report,
		AverageOrderValue: b.report.AverageOrderValue(),
		Error:             b.errMsg,
		Loading:           b.loading,
		NoData:            b.noData,
	}
}

func noDataMessage(err error) string {
	if errors.Is(err, inErrors.ErrQuery) {
		return "no data for this date"
	}
	return err.Error()
}
