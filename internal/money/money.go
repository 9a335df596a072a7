package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the precision used for derived display values (unit price, receipts).
const DisplayPlaces = 2

// Sum adds all amounts. An empty input sums to zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Format renders an amount with two decimals, e.g. "1250.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// RequireNonNegative returns an error naming field when d < 0.
func RequireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%s must not be negative, got %s", field, d.String())
	}
	return nil
}

// RequirePositive returns an error naming field when d <= 0.
func RequirePositive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%s must be greater than zero, got %s", field, d.String())
	}
	return nil
}

// RequireQuantity rejects quantities below min. Quantities are whole units.
func RequireQuantity(field string, q, min int) error {
	if q < min {
		return fmt.Errorf("%s must be at least %d, got %d", field, min, q)
	}
	return nil
}
