package validate

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const TagPrice = "price"

// New returns a validator that understands decimal.Decimal fields and the "price" tag
// (non-negative amount).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
	_ = v.RegisterValidation(TagPrice, ValidatePrice)
	return v
}

func ValidatePrice(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		return !d.IsNegative()
	case decimal.Decimal:
		return !value.IsNegative()
	default:
		return false
	}
}

// DecimalValue exposes a decimal.Decimal to the validator as its string form so that
// "required" and "price" operate on it.
func DecimalValue(v reflect.Value) interface{} {
	n, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return n.String()
}
