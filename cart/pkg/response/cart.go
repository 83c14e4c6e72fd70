package response

import (
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID        string          `json:"id"         validate:"required"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required,price"`
	Quantity  int             `json:"quantity"   validate:"gte=1"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	Lines      []CartLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Submitting bool            `json:"submitting"`
}

// Total sums unit price times quantity over lines; an empty slice totals zero.
func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// CopyLines returns a deep copy so later mutation of either slice cannot leak into the other.
func CopyLines(lines []CartLine) []CartLine {
	copied := make([]CartLine, len(lines))
	copy(copied, lines)
	return copied
}
