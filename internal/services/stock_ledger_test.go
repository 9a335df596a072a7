package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store/memory"
)

func TestRecordSale(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Fabric", 50)

	qty, err := ledger.RecordSale(ctx, stock.ID, 10, BillRef{ID: "b1", Number: "B-1", Date: date("2024-05-01")})
	if err != nil {
		t.Fatalf("RecordSale(10) error = %v", err)
	}
	if qty != 40 {
		t.Errorf("quantity = %d, want 40", qty)
	}

	_, err = ledger.RecordSale(ctx, stock.ID, 50, BillRef{ID: "b2", Number: "B-2"})
	var ise *billing.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("RecordSale(50) error = %v, want InsufficientStockError", err)
	}
	if ise.Available != 40 || ise.Requested != 50 {
		t.Errorf("error = %+v", ise)
	}
	if got := stockQty(t, db, stock.ID); got != 40 {
		t.Errorf("quantity after failed sale = %d, want 40", got)
	}
	if err := ledger.Verify(ctx, stock.ID); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestAdjustRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Fabric", 5)

	tests := []struct {
		name  string
		delta int
		kind  models.StockTransactionKind
	}{
		{"zero delta", 0, models.StockTransactionAdjustment},
		{"opening kind", 3, models.StockTransactionOpening},
		{"unknown kind", 3, "gift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Adjust(ctx, stock.ID, tt.delta, tt.kind, "")
			if !errors.Is(err, billing.ErrValidation) {
				t.Errorf("Adjust() error = %v, want validation", err)
			}
		})
	}

	if _, err := ledger.RecordSale(ctx, stock.ID, 0, BillRef{}); !errors.Is(err, billing.ErrValidation) {
		t.Errorf("RecordSale(0) error = %v", err)
	}
}

func TestConcurrentDeductionsNeverOversell(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Accessories", 10)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Adjust(ctx, stock.ID, -1, models.StockTransactionAdjustment, "count")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, billing.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("Adjust() unexpected error = %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 10 || rejected != 15 {
		t.Errorf("succeeded %d, rejected %d; want 10 and 15", ok, rejected)
	}
	if got := stockQty(t, db, stock.ID); got != 0 {
		t.Errorf("quantity = %d, want 0", got)
	}
	if err := ledger.Verify(ctx, stock.ID); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestReconstructLedger(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Shirt", 20)

	steps := []struct {
		delta int
		date  string
	}{
		{-5, "2024-04-10"},
		{+8, "2024-04-05"},
		{-3, "2024-04-10"},
	}
	for _, s := range steps {
		if _, err := ledger.AdjustAt(ctx, stock.ID, s.delta, models.StockTransactionAdjustment, "recount", date(s.date)); err != nil {
			t.Fatal(err)
		}
	}

	cur, err := ledger.ReconstructLedger(ctx, stock.ID)
	if err != nil {
		t.Fatal(err)
	}
	entries := cur.Collect()

	wantDeltas := []int{20, 8, -5, -3}
	wantBalances := []int{20, 28, 23, 20}
	if len(entries) != len(wantDeltas) {
		t.Fatalf("entries = %d, want %d", len(entries), len(wantDeltas))
	}
	if entries[0].Kind != models.StockTransactionOpening {
		t.Errorf("first entry kind = %s, want opening", entries[0].Kind)
	}
	for i, e := range entries {
		if e.Delta != wantDeltas[i] || e.Balance != wantBalances[i] {
			t.Errorf("entry %d = %+d (balance %d), want %+d (balance %d)", i, e.Delta, e.Balance, wantDeltas[i], wantBalances[i])
		}
	}
	if cur.Balance() != cur.QuantityOnHand() {
		t.Errorf("balance %d != on hand %d", cur.Balance(), cur.QuantityOnHand())
	}
	if cur.Next() {
		t.Error("cursor should be exhausted")
	}
}

func TestLedgerCursorEarlyStop(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Pants", 3)
	for i := 0; i < 3; i++ {
		if _, err := ledger.Adjust(ctx, stock.ID, 1, models.StockTransactionAdjustment, "return"); err != nil {
			t.Fatal(err)
		}
	}

	cur, err := ledger.ReconstructLedger(ctx, stock.ID)
	if err != nil {
		t.Fatal(err)
	}
	seen := 0
	for range cur.All() {
		seen++
		if seen == 2 {
			break
		}
	}
	if cur.Balance() != 4 {
		t.Errorf("balance after two entries = %d, want 4", cur.Balance())
	}
	rest := cur.Collect()
	if len(rest) != 2 || rest[1].Balance != 6 {
		t.Errorf("remaining entries = %+v", rest)
	}
}

func TestVerifyDetectsMismatch(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	ledger := NewStockLedger(db)
	stock := createStock(t, db, "Fabric", 7)

	stock.Quantity = 9
	if err := repositories.NewStockRepository(db).Update(ctx, stock); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Verify(ctx, stock.ID); !errors.Is(err, ErrLedgerMismatch) {
		t.Errorf("Verify() = %v, want ErrLedgerMismatch", err)
	}
}

func TestStockServiceAdjust(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewStockService(NewStockLedger(db))
	stock := createStock(t, db, "Fabric", 4)

	got, err := svc.AdjustStock(ctx, stock.ID, &models.AdjustStockRequest{Quantity: 6, Type: "add", Reason: "delivery"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", got.Quantity)
	}

	_, err = svc.AdjustStock(ctx, stock.ID, &models.AdjustStockRequest{Quantity: 11, Type: "deduct", Reason: "damaged"})
	if !errors.Is(err, billing.ErrInsufficientStock) {
		t.Errorf("over-deduct error = %v", err)
	}

	_, err = svc.AdjustStock(ctx, stock.ID, &models.AdjustStockRequest{Quantity: 1, Type: "remove"})
	var verr *billing.ValidationError
	if !errors.As(err, &verr) || len(verr.Violations) != 2 {
		t.Errorf("bad request error = %v, want type and reason violations", err)
	}
}

func TestUpdateStockKeepsQuantity(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewStockService(NewStockLedger(db))
	stock := createStock(t, db, "Fabric", 12)

	got, err := svc.UpdateStock(ctx, stock.ID, &models.UpdateStockRequest{
		Date: "2024-04-02", Name: "Raw Silk", Code: "RS-1", Category: "Fabric",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Raw Silk" || got.Quantity != 12 {
		t.Errorf("UpdateStock() = %+v", got)
	}
}
