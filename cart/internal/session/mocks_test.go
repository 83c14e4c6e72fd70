package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alturino/pos/cart/pkg/response"
	"github.com/Alturino/pos/sale/pkg/request"
	saleResponse "github.com/Alturino/pos/sale/pkg/response"
)

// MockSubmitter records every sale it receives and answers with Err when set.
type MockSubmitter struct {
	Err     error
	Release chan struct{}
	Started chan struct{}
	OnCall  func()

	mu           sync.Mutex
	Transactions []saleResponse.Transaction
	Calls        int
}

func (m *MockSubmitter) SubmitSale(c context.Context, req request.SubmitSale) (saleResponse.Transaction, error) {
	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		select {
		case <-m.Release:
		case <-c.Done():
			return saleResponse.Transaction{}, c.Err()
		}
	}

	if m.OnCall != nil {
		m.OnCall()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return saleResponse.Transaction{}, m.Err
	}
	trx := saleResponse.Transaction{
		ID:          uuid.NewString(),
		Items:       response.CopyLines(req.Items),
		TotalAmount: req.TotalAmount,
		CreatedAt:   time.Now(),
	}
	m.Transactions = append(m.Transactions, trx)
	return trx, nil
}
