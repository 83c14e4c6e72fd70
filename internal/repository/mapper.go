package repository

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	cartResponse "github.com/Alturino/pos/cart/pkg/response"
	saleResponse "github.com/Alturino/pos/sale/pkg/response"
)

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func DecimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp)
}

func Decimal128FromDecimal(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func DecimalFromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func (t Transaction) Response() (saleResponse.Transaction, error) {
	items := []cartResponse.CartLine{}
	if err := json.Unmarshal(t.Items, &items); err != nil {
		return saleResponse.Transaction{}, fmt.Errorf("failed unmarshaling items of transactionId=%s with error=%w", t.ID.String(), err)
	}
	return saleResponse.Transaction{
		ID:          t.ID.String(),
		Items:       items,
		TotalAmount: DecimalFromNumeric(t.TotalAmount),
		CreatedAt:   t.CreatedAt.Time,
	}, nil
}

func (d transactionDocument) Response() (saleResponse.Transaction, error) {
	total, err := DecimalFromDecimal128(d.TotalAmount)
	if err != nil {
		return saleResponse.Transaction{}, fmt.Errorf("failed parsing totalAmount of transactionId=%s with error=%w", d.ID.Hex(), err)
	}
	items := make([]cartResponse.CartLine, 0, len(d.Items))
	for _, line := range d.Items {
		unitPrice, err := DecimalFromDecimal128(line.UnitPrice)
		if err != nil {
			return saleResponse.Transaction{}, fmt.Errorf("failed parsing unitPrice of productId=%s with error=%w", line.ID, err)
		}
		items = append(items, cartResponse.CartLine{
			ID:        line.ID,
			Name:      line.Name,
			UnitPrice: unitPrice,
			Quantity:  line.Quantity,
		})
	}
	return saleResponse.Transaction{
		ID:          d.ID.Hex(),
		Items:       items,
		TotalAmount: total,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func newLineDocuments(lines []cartResponse.CartLine) ([]lineDocument, error) {
	docs := make([]lineDocument, 0, len(lines))
	for _, line := range lines {
		unitPrice, err := Decimal128FromDecimal(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed converting unitPrice of productId=%s with error=%w", line.ID, err)
		}
		docs = append(docs, lineDocument{
			ID:        line.ID,
			Name:      line.Name,
			UnitPrice: unitPrice,
			Quantity:  line.Quantity,
		})
	}
	return docs, nil
}
