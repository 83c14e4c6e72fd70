package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/Alturino/pos/internal/config"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

// BreakerStore fails fast while the underlying store keeps failing. It never retries.
type BreakerStore struct {
	store  TransactionStore
	insert *gobreaker.CircuitBreaker[response.Transaction]
	find   *gobreaker.CircuitBreaker[[]response.Transaction]
}

func NewBreakerStore(c context.Context, store TransactionStore, cfg config.Store) *BreakerStore {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BreakerStore").
		Logger()

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return cfg.BreakerMaxFailures > 0 && counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msgf("breaker %s changed from %s to %s", name, from, to)
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}
	}

	return &BreakerStore{
		store:  store,
		insert: gobreaker.NewCircuitBreaker[response.Transaction](settings("transactions-insert")),
		find:   gobreaker.NewCircuitBreaker[[]response.Transaction](settings("transactions-find")),
	}
}

func (s *BreakerStore) InsertTransaction(c context.Context, sale request.SubmitSale) (response.Transaction, error) {
	trx, err := s.insert.Execute(func() (response.Transaction, error) {
		return s.store.InsertTransaction(c, sale)
	})
	if err != nil {
		return response.Transaction{}, fmt.Errorf("failed inserting transaction through breaker with error=%w", err)
	}
	return trx, nil
}

func (s *BreakerStore) FindTransactionsByCreatedAt(c context.Context, r CreatedAtRange) ([]response.Transaction, error) {
	trxs, err := s.find.Execute(func() ([]response.Transaction, error) {
		return s.store.FindTransactionsByCreatedAt(c, r)
	})
	if err != nil {
		return nil, fmt.Errorf("failed finding transactions through breaker with error=%w", err)
	}
	return trxs, nil
}

func (s *BreakerStore) State() (insert gobreaker.State, find gobreaker.State) {
	return s.insert.State(), s.find.State()
}
