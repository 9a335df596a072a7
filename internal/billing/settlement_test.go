package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tailor-backend/internal/models"
)

func committedBill() *models.Bill {
	b := &models.Bill{
		ID:       "bill-1",
		Items:    []models.BillLineItem{{ID: "l1", Quantity: 1, Total: dec("1000")}},
		Discount: dec("100"),
		Advance:  dec("200"),
	}
	Recompute(b)
	return b
}

func TestSettlementStatus(t *testing.T) {
	pay := func(amounts ...string) []models.Payment {
		var out []models.Payment
		for _, a := range amounts {
			out = append(out, models.Payment{Amount: dec(a)})
		}
		return out
	}

	tests := []struct {
		name     string
		advance  string
		payments []models.Payment
		grand    string
		want     models.SettlementStatus
	}{
		{"nothing paid", "0", nil, "900", models.SettlementUnpaid},
		{"advance only", "200", nil, "900", models.SettlementPartial},
		{"payments only", "0", pay("100", "50"), "900", models.SettlementPartial},
		{"exactly paid", "200", pay("700"), "900", models.SettlementPaid},
		{"zero grand total", "0", nil, "0", models.SettlementPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SettlementStatus(dec(tt.advance), tt.payments, dec(tt.grand))
			if got != tt.want {
				t.Errorf("SettlementStatus() = %s, want %s", got, tt.want)
			}
			if again := SettlementStatus(dec(tt.advance), tt.payments, dec(tt.grand)); again != got {
				t.Errorf("SettlementStatus() not stable: %s then %s", got, again)
			}
		})
	}
}

func TestApplyPaymentSettlesBill(t *testing.T) {
	b := committedBill()
	if !b.Due.Equal(dec("700")) {
		t.Fatalf("Due = %s, want 700", b.Due)
	}

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	p, err := ApplyPayment(b, now, dec("700"), now)
	if err != nil {
		t.Fatalf("ApplyPayment() error = %v", err)
	}
	if p.ID == "" {
		t.Error("payment has no id")
	}
	if !b.Due.IsZero() {
		t.Errorf("Due = %s, want 0", b.Due)
	}
	if s := Summarize(b); s.Status != models.SettlementPaid || !s.Paid.Equal(dec("900")) {
		t.Errorf("Summarize() = %s paid %s, want paid 900", s.Status, s.Paid)
	}
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	b := committedBill()
	now := time.Now()

	_, err := ApplyPayment(b, now, dec("800"), now)
	var over *OverpaymentError
	if !errors.As(err, &over) {
		t.Fatalf("ApplyPayment(800) error = %v, want *OverpaymentError", err)
	}
	if !errors.Is(err, ErrOverpayment) {
		t.Error("OverpaymentError does not match ErrOverpayment")
	}
	if !over.Due.Equal(dec("700")) {
		t.Errorf("reported due = %s, want 700", over.Due)
	}
	if !b.Due.Equal(dec("700")) || len(b.Payments) != 0 {
		t.Errorf("bill changed after rejection: due %s, %d payments", b.Due, len(b.Payments))
	}

	for _, amount := range []decimal.Decimal{decimal.Zero, dec("-10")} {
		if _, err := ApplyPayment(b, now, amount, now); !errors.Is(err, ErrValidation) {
			t.Errorf("ApplyPayment(%s) = %v, want validation error", amount, err)
		}
	}
}

func TestDueNeverNegative(t *testing.T) {
	b := committedBill()
	now := time.Now()
	for _, a := range []string{"300", "300", "300", "100", "0.01"} {
		_, _ = ApplyPayment(b, now, dec(a), now)
		if b.Due.IsNegative() {
			t.Fatalf("due went negative: %s", b.Due)
		}
		if !b.Due.Equal(b.GrandTotal.Sub(b.Advance).Sub(sumPayments(b.Payments))) {
			t.Fatalf("due %s out of sync with payments", b.Due)
		}
	}
	if !b.Due.IsZero() {
		t.Errorf("final due = %s, want 0", b.Due)
	}
}
