package service

import (
	"context"
	"time"

	"github.com/Alturino/pos/internal/repository"
	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

// MockStore implements repository.TransactionStore for testing
type MockStore struct {
	Err       error
	CreatedAt time.Time
	Deadline  bool
	Inserted  []request.SubmitSale
}

func (m *MockStore) InsertTransaction(c context.Context, sale request.SubmitSale) (response.Transaction, error) {
	_, m.Deadline = c.Deadline()
	if m.Err != nil {
		return response.Transaction{}, m.Err
	}
	m.Inserted = append(m.Inserted, sale)
	return response.Transaction{
		ID:          "trx-1",
		Items:       sale.Items,
		TotalAmount: sale.TotalAmount,
		CreatedAt:   m.CreatedAt,
	}, nil
}

func (m *MockStore) FindTransactionsByCreatedAt(context.Context, repository.CreatedAtRange) ([]response.Transaction, error) {
	return nil, nil
}
