package repository

import (
	"context"
	"time"

	"github.com/Alturino/pos/sale/pkg/request"
	"github.com/Alturino/pos/sale/pkg/response"
)

// TransactionStore is the append-only transaction log. Implementations stamp CreatedAt on the
// server side and write each transaction as a single record.
type TransactionStore interface {
	InsertTransaction(c context.Context, sale request.SubmitSale) (response.Transaction, error)
	// FindTransactionsByCreatedAt returns transactions with Start <= CreatedAt <= End, newest first
	// when the backend honors the requested order.
	FindTransactionsByCreatedAt(c context.Context, r CreatedAtRange) ([]response.Transaction, error)
}

type CreatedAtRange struct {
	Start time.Time
	End   time.Time
}
