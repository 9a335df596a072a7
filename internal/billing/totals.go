package billing

import (
	"github.com/shopspring/decimal"

	"tailor-backend/internal/models"
	"tailor-backend/internal/money"
)

// Totals are the derived monetary figures of a bill.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Advance    decimal.Decimal `json:"advance"`
	Payments   decimal.Decimal `json:"payments"`
	Due        decimal.Decimal `json:"due"`
}

// ComputeTotals derives subtotal, grand total and due. It is deterministic and
// has no side effects.
func ComputeTotals(items []models.BillLineItem, discount, advance decimal.Decimal, payments []models.Payment) Totals {
	lineTotals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		lineTotals[i] = it.Total
	}
	subtotal := money.Sum(lineTotals...)
	paid := sumPayments(payments)
	grand := subtotal.Sub(discount)
	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		GrandTotal: grand,
		Advance:    advance,
		Payments:   paid,
		Due:        grand.Sub(advance).Sub(paid),
	}
}

// Recompute refreshes the stored total fields of b from its items, discount,
// advance and payments. Every code path that saves a bill calls it first.
func Recompute(b *models.Bill) Totals {
	t := ComputeTotals(b.Items, b.Discount, b.Advance, b.Payments)
	b.Total = t.Subtotal
	b.GrandTotal = t.GrandTotal
	b.Due = t.Due
	return t
}

func sumPayments(payments []models.Payment) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		amounts[i] = p.Amount
	}
	return money.Sum(amounts...)
}
