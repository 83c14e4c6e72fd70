package session

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/pos/cart/pkg/response"
	"github.com/Alturino/pos/catalog"
	inErrors "github.com/Alturino/pos/internal/errors"
)

func item(t *testing.T, id string) catalog.Item {
	t.Helper()
	it, ok := catalog.Default().FindByID(id)
	require.True(t, ok, "catalog item %s", id)
	return it
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name          string
		ids           []string
		expectedLines []response.CartLine
		expectedTotal decimal.Decimal
	}{
		{
			name:          "given no item should have empty cart with zero total",
			ids:           nil,
			expectedLines: []response.CartLine{},
			expectedTotal: decimal.Zero,
		},
		{
			name: "given same item twice should aggregate into one line with quantity 2",
			ids:  []string{"1", "1"},
			expectedLines: []response.CartLine{
				{ID: "1", Name: "Açaí Trad. 300ml", UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
			},
			expectedTotal: decimal.RequireFromString("30.00"),
		},
		{
			name: "given items in mixed order should keep first add order",
			ids:  []string{"4", "1", "4", "1", "4"},
			expectedLines: []response.CartLine{
				{ID: "4", Name: "Bombom Unitário", UnitPrice: decimal.RequireFromString("2.50"), Quantity: 3},
				{ID: "1", Name: "Açaí Trad. 300ml", UnitPrice: decimal.RequireFromString("15.00"), Quantity: 2},
			},
			expectedTotal: decimal.RequireFromString("37.50"),
		},
		{
			name: "given unknown item should accept it as a new line",
			ids:  []string{"x"},
			expectedLines: []response.CartLine{
				{ID: "x", Name: "Custom", UnitPrice: decimal.RequireFromString("1.25"), Quantity: 1},
			},
			expectedTotal: decimal.RequireFromString("1.25"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := context.Background()
			s := New(&MockSubmitter{})
			for _, id := range tt.ids {
				it, ok := catalog.Default().FindByID(id)
				if !ok {
					it = catalog.Item{ID: id, Name: "Custom", UnitPrice: decimal.RequireFromString("1.25")}
				}
				s.AddItem(c, it)
			}

			lines := s.Lines()
			require.Len(t, lines, len(tt.expectedLines))
			for i, expected := range tt.expectedLines {
				assert.Equal(t, expected.ID, lines[i].ID)
				assert.Equal(t, expected.Name, lines[i].Name)
				assert.True(t, expected.UnitPrice.Equal(lines[i].UnitPrice))
				assert.Equal(t, expected.Quantity, lines[i].Quantity)
			}
			assert.True(t, tt.expectedTotal.Equal(s.Total()), "expected %s got %s", tt.expectedTotal, s.Total())
		})
	}
}

func TestTotalMatchesLines(t *testing.T) {
	c := context.Background()
	items := catalog.Default().Items()
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		s := New(&MockSubmitter{})
		for n := r.Intn(40); n > 0; n-- {
			s.AddItem(c, items[r.Intn(len(items))])
		}

		expected := decimal.Zero
		seen := map[string]bool{}
		for _, line := range s.Lines() {
			assert.False(t, seen[line.ID], "duplicate line for %s", line.ID)
			seen[line.ID] = true
			assert.GreaterOrEqual(t, line.Quantity, 1)
			expected = expected.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		assert.True(t, expected.Equal(s.Total()))
	}
}

func TestClear(t *testing.T) {
	c := context.Background()

	t.Run("given empty cart should stay empty", func(t *testing.T) {
		s := New(&MockSubmitter{})
		require.NoError(t, s.Clear(c))
		require.NoError(t, s.Clear(c))
		assert.Empty(t, s.Lines())
		assert.True(t, s.Total().IsZero())
	})

	t.Run("given non empty cart should remove every line", func(t *testing.T) {
		s := New(&MockSubmitter{})
		s.AddItem(c, item(t, "1"))
		s.AddItem(c, item(t, "2"))
		require.NoError(t, s.Clear(c))
		assert.Empty(t, s.Lines())
		assert.True(t, s.Total().IsZero())
	})
}

func TestLinesIsCopy(t *testing.T) {
	c := context.Background()
	s := New(&MockSubmitter{})
	s.AddItem(c, item(t, "1"))

	lines := s.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestSubmit(t *testing.T) {
	c := context.Background()

	t.Run("given empty cart should not write and return not submitted", func(t *testing.T) {
		submitter := &MockSubmitter{}
		s := New(submitter)

		result, err := s.Submit(c)

		require.NoError(t, err)
		assert.False(t, result.Submitted)
		assert.Equal(t, 0, submitter.Calls)
		assert.Empty(t, s.Lines())
	})

	t.Run("given failing store should leave cart unchanged and return submission error", func(t *testing.T) {
		submitter := &MockSubmitter{Err: errors.New("connection refused")}
		s := New(submitter)
		s.AddItem(c, item(t, "1"))
		s.AddItem(c, item(t, "1"))
		s.AddItem(c, item(t, "4"))
		before := s.Lines()
		beforeTotal := s.Total()

		result, err := s.Submit(c)

		require.Error(t, err)
		assert.ErrorIs(t, err, inErrors.ErrSubmission)
		assert.False(t, result.Submitted)
		assert.Equal(t, before, s.Lines())
		assert.True(t, beforeTotal.Equal(s.Total()))
		assert.False(t, s.Submitting())
	})

	t.Run("given 2 acai and 1 bombom should persist 32.50 and empty the cart", func(t *testing.T) {
		submitter := &MockSubmitter{}
		s := New(submitter)
		s.AddItem(c, item(t, "1"))
		s.AddItem(c, item(t, "1"))
		s.AddItem(c, item(t, "4"))

		require.Len(t, s.Lines(), 2)
		assert.True(t, decimal.RequireFromString("32.50").Equal(s.Total()))
		before := s.Lines()

		result, err := s.Submit(c)

		require.NoError(t, err)
		assert.True(t, result.Submitted)
		assert.NotEmpty(t, result.Transaction.ID)
		assert.Empty(t, s.Lines())
		assert.True(t, s.Total().IsZero())

		require.Len(t, submitter.Transactions, 1)
		trx := submitter.Transactions[0]
		assert.True(t, decimal.RequireFromString("32.50").Equal(trx.TotalAmount))
		assert.Equal(t, before, trx.Items)
	})

	t.Run("given cart mutated after submit should not alter persisted items", func(t *testing.T) {
		submitter := &MockSubmitter{}
		s := New(submitter)
		s.AddItem(c, item(t, "2"))

		_, err := s.Submit(c)
		require.NoError(t, err)
		s.AddItem(c, item(t, "2"))
		s.AddItem(c, item(t, "2"))

		require.Len(t, submitter.Transactions, 1)
		assert.Equal(t, 1, submitter.Transactions[0].Items[0].Quantity)
		assert.Equal(t, 2, s.Lines()[0].Quantity)
	})
}

func TestSubmitInFlight(t *testing.T) {
	c := context.Background()
	submitter := &MockSubmitter{Started: make(chan struct{}, 1), Release: make(chan struct{})}
	s := New(submitter)
	s.AddItem(c, item(t, "1"))

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.Submit(c)
		done <- outcome{result: result, err: err}
	}()
	<-submitter.Started

	assert.True(t, s.Submitting())

	_, err := s.Submit(c)
	assert.ErrorIs(t, err, inErrors.ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Clear(c), inErrors.ErrSubmissionInFlight)

	s.AddItem(c, item(t, "4"))

	close(submitter.Release)
	first := <-done
	require.NoError(t, first.err)
	assert.True(t, first.result.Submitted)
	assert.False(t, s.Submitting())

	require.Len(t, submitter.Transactions, 1)
	assert.Len(t, submitter.Transactions[0].Items, 1)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "4", lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestClearRacingFailedSubmit(t *testing.T) {
	c := context.Background()

	for round := 0; round < 200; round++ {
		submitter := &MockSubmitter{Err: errors.New("connection refused")}
		s := New(submitter)
		s.AddItem(c, item(t, "1"))

		var emptiedDuringSubmit atomic.Bool
		submitter.OnCall = func() {
			runtime.Gosched()
			if len(s.Lines()) == 0 {
				emptiedDuringSubmit.Store(true)
			}
		}

		var clearErr error
		wg := sync.WaitGroup{}
		wg.Add(2)
		go func() {
			defer wg.Done()
			clearErr = s.Clear(c)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Submit(c)
		}()
		wg.Wait()

		require.False(t, emptiedDuringSubmit.Load(), "round %d cleared a cart under submission", round)
		if clearErr != nil {
			assert.ErrorIs(t, clearErr, inErrors.ErrSubmissionInFlight)
			assert.Len(t, s.Lines(), 1)
		}
	}
}

func TestConcurrentAddItem(t *testing.T) {
	c := context.Background()
	s := New(&MockSubmitter{})
	it := item(t, "4")

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(c, it)
		}()
	}
	wg.Wait()

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 50, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("125.00").Equal(s.Total()))
}

func TestCart(t *testing.T) {
	c := context.Background()
	s := New(&MockSubmitter{})
	s.AddItem(c, item(t, "3"))

	cart := s.Cart()

	assert.Len(t, cart.Lines, 1)
	assert.True(t, cart.Total.Equal(s.Total()))
	assert.False(t, cart.Submitting)
}
