package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/keylock"
	"tailor-backend/internal/logger"
	"tailor-backend/internal/metrics"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

// PaymentLedger records payments against committed bills. Payments on one
// bill are serialized so each due check sees every earlier payment.
type PaymentLedger struct {
	Repo *repositories.BillRepository

	locks *keylock.Map
	now   func() time.Time
	log   zerolog.Logger
}

func NewPaymentLedger(db store.Store) *PaymentLedger {
	return &PaymentLedger{
		Repo:  repositories.NewBillRepository(db),
		locks: keylock.New(),
		now:   timeutil.Now,
		log:   logger.WithComponent("payment-ledger"),
	}
}

// AddPayment appends a payment and returns the updated bill. The amount must
// be positive and no larger than the current due. A zero date means today.
func (p *PaymentLedger) AddPayment(ctx context.Context, billID string, date time.Time, amount decimal.Decimal) (*models.Bill, error) {
	unlock, err := p.locks.Lock(ctx, billID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	bill, err := p.Repo.Get(ctx, billID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	if date.IsZero() {
		date = now
	}
	payment, err := billing.ApplyPayment(bill, date, amount, now)
	if err != nil {
		return nil, err
	}
	if err := p.Repo.Update(ctx, bill); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	p.log.Info().Str("bill_id", billID).Str("payment_id", payment.ID).
		Str("amount", amount.StringFixed(2)).Str("due", bill.Due.StringFixed(2)).
		Msg("payment recorded")
	return bill, nil
}

// RecordPayment applies the payment form.
func (p *PaymentLedger) RecordPayment(ctx context.Context, billID string, req *models.CreatePaymentRequest) (*models.BillSummary, error) {
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, billing.Invalid("date", err.Error())
	}
	bill, err := p.AddPayment(ctx, billID, date, req.Amount)
	if err != nil {
		return nil, err
	}
	summary := billing.Summarize(bill)
	return &summary, nil
}

// SettlementStatus classifies a bill from its advance, payments and grand total.
func (p *PaymentLedger) SettlementStatus(b *models.Bill) models.SettlementStatus {
	return billing.SettlementStatus(b.Advance, b.Payments, b.GrandTotal)
}

// Status loads a bill and derives its settlement.
func (p *PaymentLedger) Status(ctx context.Context, billID string) (*models.BillSummary, error) {
	bill, err := p.Repo.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	summary := billing.Summarize(bill)
	return &summary, nil
}
