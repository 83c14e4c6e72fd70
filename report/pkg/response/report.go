package response

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/Alturino/pos/sale/pkg/response"
)

type DayReport struct {
	Date         civil.Date             `json:"date"`
	TotalSold    decimal.Decimal        `json:"total_sold"`
	Transactions []response.Transaction `json:"transactions"`
	OrderCount   int                    `json:"order_count"`
}

func EmptyDayReport(date civil.Date) DayReport {
	return DayReport{
		Date:         date,
		TotalSold:    decimal.Zero,
		Transactions: []response.Transaction{},
	}
}

// AverageOrderValue is TotalSold / OrderCount rounded to cents, or zero when there are no orders.
func (r DayReport) AverageOrderValue() decimal.Decimal {
	if r.OrderCount == 0 {
		return decimal.Zero
	}
	return r.TotalSold.Div(decimal.NewFromInt(int64(r.OrderCount))).Round(2)
}
