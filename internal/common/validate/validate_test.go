package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type pricedLine struct {
	UnitPrice decimal.Decimal `validate:"required,price"`
	Quantity  int             `validate:"gte=1"`
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   pricedLine
		wantErr bool
	}{
		{
			name:  "given positive price should be valid",
			input: pricedLine{UnitPrice: decimal.RequireFromString("15.00"), Quantity: 1},
		},
		{
			name:  "given zero price should be valid",
			input: pricedLine{UnitPrice: decimal.Zero, Quantity: 1},
		},
		{
			name:    "given negative price should be invalid",
			input:   pricedLine{UnitPrice: decimal.RequireFromString("-2.50"), Quantity: 1},
			wantErr: true,
		},
		{
			name:    "given zero quantity should be invalid",
			input:   pricedLine{UnitPrice: decimal.RequireFromString("2.50"), Quantity: 0},
			wantErr: true,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
