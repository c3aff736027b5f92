package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToCents converts a currency amount to integer minor units. Amounts with
// sub-cent precision are rejected instead of rounded.
func ToCents(d decimal.Decimal) (int64, error) {
	c := d.Mul(hundred)
	if !c.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return c.IntPart(), nil
}

// CentsFromFloat converts a float received at a JSON boundary to cents.
// decimal.NewFromFloat recovers the shortest exact representation, so 99.99
// maps to 9999 rather than 9998.999....
func CentsFromFloat(f float64) (int64, error) {
	return ToCents(decimal.NewFromFloat(f))
}

// FromCents renders minor units as a decimal currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// FormatCents renders minor units as a plain 2-decimal string.
func FormatCents(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
