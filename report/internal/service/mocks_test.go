package service

import (
	"context"
	"sync"

	"github.com/Alturino/pos/internal/repository"
	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

// MockStore keeps transactions in insertion order and filters them with inclusive bounds, ignoring
// the requested sort. When Release is set, finds wait for it after signalling Started.
type MockStore struct {
	Err          error
	Transactions []response.Transaction
	Ranges       []repository.CreatedAtRange
	Started      chan struct{}
	Release      chan struct{}

	mu sync.Mutex
}

func (m *MockStore) InsertTransaction(_ context.Context, sale request.SubmitSale) (response.Transaction, error) {
	return response.Transaction{}, nil
}

func (m *MockStore) Append(trx response.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, trx)
}

func (m *MockStore) FindTransactionsByCreatedAt(c context.Context, r repository.CreatedAtRange) ([]response.Transaction, error) {
	m.mu.Lock()
	m.Ranges = append(m.Ranges, r)
	found := []response.Transaction{}
	for _, trx := range m.Transactions {
		if !trx.CreatedAt.Before(r.Start) && !trx.CreatedAt.After(r.End) {
			found = append(found, trx)
		}
	}
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-c.Done():
			return nil, c.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return found, nil
}
