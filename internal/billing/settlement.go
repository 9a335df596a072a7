package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tailor-backend/internal/models"
	"tailor-backend/internal/money"
)

// PaidToDate is the advance plus every recorded payment.
func PaidToDate(advance decimal.Decimal, payments []models.Payment) decimal.Decimal {
	return advance.Add(sumPayments(payments))
}

// SettlementStatus classifies a bill. A bill whose grand total is zero counts as
// paid even when nothing was collected.
func SettlementStatus(advance decimal.Decimal, payments []models.Payment, grandTotal decimal.Decimal) models.SettlementStatus {
	paid := PaidToDate(advance, payments)
	switch {
	case paid.GreaterThanOrEqual(grandTotal):
		return models.SettlementPaid
	case paid.IsZero():
		return models.SettlementUnpaid
	default:
		return models.SettlementPartial
	}
}

// Summarize attaches paid-to-date and status to a bill for display.
func Summarize(b *models.Bill) models.BillSummary {
	return models.BillSummary{
		Bill:   b,
		Paid:   PaidToDate(b.Advance, b.Payments),
		Status: SettlementStatus(b.Advance, b.Payments, b.GrandTotal),
	}
}

// CheckPayment validates amount against the current due of b without changing it.
func CheckPayment(b *models.Bill, amount decimal.Decimal) error {
	if err := money.RequirePositive("amount", amount); err != nil {
		return Invalid("amount", err.Error())
	}
	due := ComputeTotals(b.Items, b.Discount, b.Advance, b.Payments).Due
	if amount.GreaterThan(due) {
		return &OverpaymentError{BillID: b.ID, Amount: amount, Due: due}
	}
	return nil
}

// ApplyPayment appends a payment to b and recomputes its totals. b is left
// untouched when the payment is rejected.
func ApplyPayment(b *models.Bill, date time.Time, amount decimal.Decimal, now time.Time) (models.Payment, error) {
	if err := CheckPayment(b, amount); err != nil {
		return models.Payment{}, err
	}
	p := models.Payment{
		ID:        uuid.NewString(),
		Date:      date,
		Amount:    amount,
		CreatedAt: now,
	}
	b.Payments = append(b.Payments, p)
	Recompute(b)
	return p, nil
}
