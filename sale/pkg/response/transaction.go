package response

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alturino/pos/cart/pkg/response"
)

// Transaction is a persisted sale. CreatedAt is assigned by the store, never by the register.
type Transaction struct {
	CreatedAt   time.Time           `json:"created_at"`
	Items       []response.CartLine `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	ID          string              `json:"id"`
}
