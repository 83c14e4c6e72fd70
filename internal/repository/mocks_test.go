package repository

import (
	"context"

	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

// MockStore implements TransactionStore for testing
type MockStore struct {
	InsertErr   error
	FindErr     error
	Found       []response.Transaction
	InsertCalls int
	FindCalls   int
}

func (m *MockStore) InsertTransaction(_ context.Context, sale request.SubmitSale) (response.Transaction, error) {
	m.InsertCalls++
	if m.InsertErr != nil {
		return response.Transaction{}, m.InsertErr
	}
	return response.Transaction{ID: "trx", Items: sale.Items, TotalAmount: sale.TotalAmount}, nil
}

func (m *MockStore) FindTransactionsByCreatedAt(_ context.Context, _ CreatedAtRange) ([]response.Transaction, error) {
	m.FindCalls++
	return m.Found, m.FindErr
}
