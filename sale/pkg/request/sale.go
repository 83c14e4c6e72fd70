package request

import (
	"github.com/shopspring/decimal"

	"github.com/Alturino/pos/cart/pkg/response"
)

type SubmitSale struct {
	Items       []response.CartLine `validate:"required,gt=0,dive" json:"items"`
	TotalAmount decimal.Decimal     `validate:"required,price"     json:"total_amount"`
}
