package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/sale/pkg/request"
)

func TestBreakerStore(t *testing.T) {
	c := context.Background()
	cfg := config.Store{BreakerMaxFailures: 2, BreakerTimeout: time.Minute}
	sale := request.SubmitSale{TotalAmount: decimal.RequireFromString("10")}

	t.Run("given healthy store should pass through", func(t *testing.T) {
		mock := &MockStore{}
		store := NewBreakerStore(c, mock, cfg)

		trx, err := store.InsertTransaction(c, sale)

		require.NoError(t, err)
		assert.Equal(t, "trx", trx.ID)
		assert.Equal(t, 1, mock.InsertCalls)
	})

	t.Run("given consecutive failures should open and stop calling the store", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		mock := &MockStore{InsertErr: storeErr}
		store := NewBreakerStore(c, mock, cfg)

		_, err := store.InsertTransaction(c, sale)
		assert.ErrorIs(t, err, storeErr)
		_, err = store.InsertTransaction(c, sale)
		assert.ErrorIs(t, err, storeErr)

		_, err = store.InsertTransaction(c, sale)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, 2, mock.InsertCalls)

		insert, find := store.State()
		assert.Equal(t, gobreaker.StateOpen, insert)
		assert.Equal(t, gobreaker.StateClosed, find)
	})

	t.Run("given canceled context should not count as failure", func(t *testing.T) {
		mock := &MockStore{FindErr: context.Canceled}
		store := NewBreakerStore(c, mock, cfg)

		for range 3 {
			_, err := store.FindTransactionsByCreatedAt(c, CreatedAtRange{})
			assert.ErrorIs(t, err, context.Canceled)
		}
		assert.Equal(t, 3, mock.FindCalls)
	})
}
