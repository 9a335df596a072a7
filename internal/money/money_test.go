package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		amounts []decimal.Decimal
		want    string
	}{
		{"empty", nil, "0"},
		{"single", []decimal.Decimal{decimal.NewFromInt(250)}, "250"},
		{"fractions", []decimal.Decimal{decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2")}, "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.amounts...)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Sum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(decimal.NewFromInt(100).Div(decimal.NewFromInt(3))); got != "33.33" {
		t.Errorf("Format(100/3) = %s, want 33.33", got)
	}
	if Format(decimal.NewFromInt(5)) != "5.00" {
		t.Errorf("Format(5) = %s, want 5.00", Format(decimal.NewFromInt(5)))
	}
}

func TestRequireChecks(t *testing.T) {
	if err := RequireNonNegative("discount", decimal.Zero); err != nil {
		t.Errorf("zero discount should be allowed: %v", err)
	}
	if err := RequireNonNegative("discount", decimal.NewFromInt(-1)); err == nil {
		t.Error("negative discount should be rejected")
	}
	if err := RequirePositive("amount", decimal.Zero); err == nil {
		t.Error("zero amount should be rejected")
	}
	if err := RequireQuantity("quantity", 0, 1); err == nil {
		t.Error("quantity 0 should be rejected")
	}
	if err := RequireQuantity("quantity", 3, 1); err != nil {
		t.Errorf("quantity 3 should pass: %v", err)
	}
}
