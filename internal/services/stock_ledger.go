package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/keylock"
	"tailor-backend/internal/logger"
	"tailor-backend/internal/metrics"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

// ErrLedgerMismatch is returned by Verify when the reconstructed ledger does
// not end at the stock's quantity on hand.
var ErrLedgerMismatch = errors.New("stock ledger does not match quantity on hand")

// BillRef identifies the bill a sale belongs to.
type BillRef struct {
	ID     string
	Number string
	Date   time.Time
}

// StockLedger owns quantity on hand. Every change goes through it, is
// serialized per stock id and leaves a stock-transactions record behind.
type StockLedger struct {
	DB           store.Store
	Stocks       *repositories.StockRepository
	Transactions *repositories.StockTransactionRepository

	locks *keylock.Map
	now   func() time.Time
	log   zerolog.Logger
}

func NewStockLedger(db store.Store) *StockLedger {
	return &StockLedger{
		DB:           db,
		Stocks:       repositories.NewStockRepository(db),
		Transactions: repositories.NewStockTransactionRepository(db),
		locks:        keylock.New(),
		now:          timeutil.Now,
		log:          logger.WithComponent("stock-ledger"),
	}
}

// Adjust applies a signed delta dated now. See AdjustAt.
func (l *StockLedger) Adjust(ctx context.Context, stockID string, delta int, kind models.StockTransactionKind, reason string) (int, error) {
	return l.AdjustAt(ctx, stockID, delta, kind, reason, time.Time{})
}

// AdjustAt applies a signed delta and returns the new quantity. A result below
// zero fails with *billing.InsufficientStockError and changes nothing. A zero
// date means now.
func (l *StockLedger) AdjustAt(ctx context.Context, stockID string, delta int, kind models.StockTransactionKind, reason string, date time.Time) (int, error) {
	if err := checkAdjustment(delta, kind); err != nil {
		return 0, err
	}
	if date.IsZero() {
		date = l.now()
	}

	unlock, err := l.lock(ctx, stockID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var qty int
	err = runInTx(ctx, l.DB, func(ctx context.Context, tx store.Store) error {
		qty, err = l.apply(ctx, tx, stockID, delta, models.StockTransaction{
			Kind:   kind,
			Date:   date,
			Reason: reason,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.StockAdjustments.WithLabelValues(string(kind)).Inc()
	l.log.Info().Str("stock_id", stockID).Int("delta", delta).Str("kind", string(kind)).Int("quantity", qty).Msg("stock adjusted")
	return qty, nil
}

// RecordSale deducts quantity for a committed bill.
func (l *StockLedger) RecordSale(ctx context.Context, stockID string, quantity int, ref BillRef) (int, error) {
	if quantity < 1 {
		return 0, billing.Invalid("quantity", fmt.Sprintf("sale quantity must be at least 1, got %d", quantity))
	}
	unlock, err := l.lock(ctx, stockID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	var qty int
	err = runInTx(ctx, l.DB, func(ctx context.Context, tx store.Store) error {
		qty, err = l.apply(ctx, tx, stockID, -quantity, saleEntry(ref))
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.StockAdjustments.WithLabelValues(string(models.StockTransactionSale)).Inc()
	return qty, nil
}

func saleEntry(ref BillRef) models.StockTransaction {
	return models.StockTransaction{
		Kind:       models.StockTransactionSale,
		Date:       ref.Date,
		BillID:     ref.ID,
		BillNumber: ref.Number,
	}
}

func checkAdjustment(delta int, kind models.StockTransactionKind) error {
	verr := &billing.ValidationError{}
	if delta == 0 {
		verr.Add("quantity", "quantity change must not be zero")
	}
	if kind != models.StockTransactionSale && kind != models.StockTransactionAdjustment {
		verr.Add("kind", fmt.Sprintf("kind must be sale or adjustment, got %q", kind))
	}
	return verr.OrNil()
}

// lock serializes work on one stock item.
func (l *StockLedger) lock(ctx context.Context, stockIDs ...string) (func(), error) {
	return l.locks.LockMany(ctx, stockIDs...)
}

// apply changes quantity and records the transaction through db. The caller
// holds the lock for stockID.
func (l *StockLedger) apply(ctx context.Context, db store.Store, stockID string, delta int, entry models.StockTransaction) (int, error) {
	stocks := l.Stocks.WithStore(db)
	txns := l.Transactions.WithStore(db)

	stock, err := stocks.Get(ctx, stockID)
	if err != nil {
		return 0, err
	}
	before := stock.Quantity
	after := before + delta
	if after < 0 {
		return before, &billing.InsufficientStockError{StockID: stockID, Available: before, Requested: -delta}
	}

	stock.Quantity = after
	if err := stocks.Update(ctx, stock); err != nil {
		return before, err
	}

	entry.StockID = stockID
	entry.Delta = delta
	if entry.Date.IsZero() {
		entry.Date = l.now()
	}
	if err := txns.Create(ctx, &entry); err != nil {
		// without a transaction the quantity must be put back by hand
		stock.Quantity = before
		if rerr := stocks.Update(ctx, stock); rerr != nil {
			l.log.Error().Err(rerr).Str("stock_id", stockID).Msg("failed to restore quantity after ledger write error")
		}
		return before, err
	}
	return after, nil
}

// ReconstructLedger returns the stock's history: the opening entry followed
// by every recorded transaction ordered by date, ties kept in recording order.
// It reads only.
func (l *StockLedger) ReconstructLedger(ctx context.Context, stockID string) (*LedgerCursor, error) {
	unlock, err := l.lock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stock, err := l.Stocks.Get(ctx, stockID)
	if err != nil {
		return nil, err
	}
	recorded, err := l.Transactions.ListByStock(ctx, stockID)
	if err != nil {
		return nil, err
	}

	openingDate := stock.Date
	if openingDate.IsZero() {
		openingDate = stock.CreatedAt
	}
	entries := make([]models.StockTransaction, 0, len(recorded)+1)
	entries = append(entries, models.StockTransaction{
		StockID:   stockID,
		Date:      openingDate,
		Kind:      models.StockTransactionOpening,
		Delta:     stock.OpeningQuantity,
		CreatedAt: stock.CreatedAt,
	})
	rest := make([]models.StockTransaction, 0, len(recorded))
	for _, t := range recorded {
		rest = append(rest, *t)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Date.Before(rest[j].Date) })
	entries = append(entries, rest...)

	return &LedgerCursor{entries: entries, onHand: stock.Quantity}, nil
}

// Verify reconstructs the ledger and checks that it ends at quantity on hand.
func (l *StockLedger) Verify(ctx context.Context, stockID string) error {
	cur, err := l.ReconstructLedger(ctx, stockID)
	if err != nil {
		return err
	}
	for cur.Next() {
	}
	if cur.Balance() != cur.onHand {
		return fmt.Errorf("%w: stock %s ledger ends at %d, quantity on hand is %d",
			ErrLedgerMismatch, stockID, cur.Balance(), cur.onHand)
	}
	return nil
}

// LedgerCursor walks a reconstructed ledger once, folding the running
// balance as it goes. It cannot be rewound.
type LedgerCursor struct {
	entries []models.StockTransaction
	pos     int
	balance int
	current models.StockTransaction
	onHand  int
}

// Next advances to the next entry and reports whether there was one.
func (c *LedgerCursor) Next() bool {
	if c.pos >= len(c.entries) {
		return false
	}
	c.current = c.entries[c.pos]
	c.pos++
	c.balance += c.current.Delta
	c.current.Balance = c.balance
	return true
}

// Transaction is the entry Next moved to, with its running balance.
func (c *LedgerCursor) Transaction() models.StockTransaction { return c.current }

// Balance is the running balance after the current entry.
func (c *LedgerCursor) Balance() int { return c.balance }

// QuantityOnHand is the stock's quantity when the ledger was read.
func (c *LedgerCursor) QuantityOnHand() int { return c.onHand }

// All yields the remaining entries. Like Next it consumes the cursor.
func (c *LedgerCursor) All() iter.Seq[models.StockTransaction] {
	return func(yield func(models.StockTransaction) bool) {
		for c.Next() {
			if !yield(c.Transaction()) {
				return
			}
		}
	}
}

// Collect drains the cursor into a slice.
func (c *LedgerCursor) Collect() []models.StockTransaction {
	out := make([]models.StockTransaction, 0, len(c.entries)-c.pos)
	for t := range c.All() {
		out = append(out, t)
	}
	return out
}
