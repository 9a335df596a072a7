package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/cache"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/store/memory"
)

// flakyStore has no transactions and fails writes to one stock record.
type flakyStore struct {
	store.Store
	failStockID string
}

func (f *flakyStore) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	if coll == store.Stocks && id == f.failStockID {
		return store.Record{}, store.Wrap("put", coll, id, errors.New("disk full"))
	}
	return f.Store.Put(ctx, coll, id, data)
}

func TestCommitDeductsStock(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())
	cust := createCustomer(t, db, "Ravi")
	shirt := createStock(t, db, "Shirt", 5)

	bill, err := svc.Commit(ctx, draftFor(t, cust.ID,
		lineInput{shirt, 2, "800"},
		lineInput{shirt, 3, "1200"},
	))
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if bill.ID == "" || !bill.GrandTotal.Equal(dec("2000")) {
		t.Errorf("bill = %s grand total %s", bill.ID, bill.GrandTotal)
	}
	if got := stockQty(t, db, shirt.ID); got != 0 {
		t.Errorf("quantity = %d, want 0", got)
	}

	txns, err := repositories.NewStockTransactionRepository(db).ListByStock(ctx, shirt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txns))
	}
	for _, tx := range txns {
		if tx.Kind != models.StockTransactionSale || tx.BillID != bill.ID || tx.BillNumber != "B-1" {
			t.Errorf("transaction = %+v", tx)
		}
	}
}

func TestCommitChecksSummedQuantities(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())
	cust := createCustomer(t, db, "Ravi")
	shirt := createStock(t, db, "Shirt", 4)
	pants := createStock(t, db, "Pants", 9)

	_, err := svc.Commit(ctx, draftFor(t, cust.ID,
		lineInput{pants, 1, "600"},
		lineInput{shirt, 2, "800"},
		lineInput{shirt, 3, "1200"},
	))
	var ise *billing.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("Commit() error = %v, want InsufficientStockError", err)
	}
	if ise.StockID != shirt.ID || ise.Requested != 5 || ise.Available != 4 {
		t.Errorf("error = %+v", ise)
	}

	if got := stockQty(t, db, pants.ID); got != 9 {
		t.Errorf("pants quantity = %d, want 9 (no partial deduction)", got)
	}
	bills, _ := svc.Repo.List(ctx)
	if len(bills) != 0 {
		t.Errorf("bills = %d, want 0", len(bills))
	}
}

func TestCommitRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())

	_, err := svc.Commit(ctx, svc.NewDraft())
	if !errors.Is(err, billing.ErrValidation) {
		t.Errorf("Commit(empty) error = %v", err)
	}

	shirt := createStock(t, db, "Shirt", 4)
	_, err = svc.Commit(ctx, draftFor(t, "ghost", lineInput{shirt, 1, "400"}))
	var verr *billing.ValidationError
	if !errors.As(err, &verr) || verr.Violations[0].Field != "customer_id" {
		t.Errorf("Commit(unknown customer) error = %v", err)
	}
}

func TestCommitCompensatesWithoutTransactions(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	cust := createCustomer(t, mem, "Ravi")
	shirt := createStock(t, mem, "Shirt", 5)
	pants := createStock(t, mem, "Pants", 5)

	db := &flakyStore{Store: mem, failStockID: pants.ID}
	ledger := NewStockLedger(db)
	svc := NewBillService(db, ledger, billing.DefaultCategoryFields())

	_, err := svc.Commit(ctx, draftFor(t, cust.ID,
		lineInput{shirt, 2, "800"},
		lineInput{pants, 1, "600"},
	))
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("Commit() error = %v, want storage error", err)
	}

	if got := stockQty(t, mem, shirt.ID); got != 5 {
		t.Errorf("shirt quantity = %d, want 5 after compensation", got)
	}
	if got := stockQty(t, mem, pants.ID); got != 5 {
		t.Errorf("pants quantity = %d, want 5", got)
	}
	bills, _ := repositories.NewBillRepository(mem).List(ctx)
	if len(bills) != 0 {
		t.Errorf("bills = %d, want the partial bill removed", len(bills))
	}
	// the reversal is recorded, so the ledger still adds up
	if err := NewStockLedger(mem).Verify(ctx, shirt.ID); err != nil {
		t.Errorf("Verify(shirt) = %v", err)
	}
}

func TestDraftFromRequestAggregatesViolations(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())
	shirt := createStock(t, db, "Shirt", 4)
	price := dec("100")

	_, err := svc.DraftFromRequest(ctx, &models.CreateBillRequest{
		Date: "not-a-date",
		Items: []models.CreateBillItemRequest{
			{StockID: "missing", Quantity: 1, Price: &price},
			{StockID: shirt.ID, Quantity: 1},
		},
	})
	var verr *billing.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("DraftFromRequest() error = %v", err)
	}
	for _, field := range []string{"date", "items[0].stock_id", "items[1].total", "customer_id", "bill_number"} {
		if !hasField(verr, field) {
			t.Errorf("missing violation for %s in %v", field, verr.Violations)
		}
	}
}

func TestDraftFromRequestReportsLinesAfterRejectedOne(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())
	cust := createCustomer(t, db, "Ravi")
	shirt := createStock(t, db, "Shirt", 4)
	price := dec("100")

	_, err := svc.DraftFromRequest(ctx, &models.CreateBillRequest{
		BillNumber:   "B-9",
		CustomerID:   cust.ID,
		Date:         "2024-05-01",
		DeliveryDate: "2024-05-08",
		Items: []models.CreateBillItemRequest{
			{StockID: "missing", Quantity: 1, Price: &price, Measurements: models.Measurements{"length": 40}},
			{StockID: shirt.ID, Quantity: 1, Price: &price},
		},
	})
	var verr *billing.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("DraftFromRequest() error = %v", err)
	}
	want := []string{"items[0].stock_id", "items[1].measurements"}
	if len(verr.Violations) != len(want) {
		t.Fatalf("violations = %v, want fields %v", verr.Violations, want)
	}
	for i, field := range want {
		if verr.Violations[i].Field != field {
			t.Errorf("violation %d = %s, want %s", i, verr.Violations[i].Field, field)
		}
	}
}

func TestCommitCompensatesBehindCache(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	cust := createCustomer(t, mem, "Ravi")
	shirt := createStock(t, mem, "Shirt", 5)
	pants := createStock(t, mem, "Pants", 5)

	db := cache.New(&flakyStore{Store: mem, failStockID: pants.ID}, nil, time.Minute)
	if db.Transactional() {
		t.Fatal("Transactional() = true over a store without transactions")
	}
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())

	_, err := svc.Commit(ctx, draftFor(t, cust.ID,
		lineInput{shirt, 2, "800"},
		lineInput{pants, 1, "600"},
	))
	if !errors.Is(err, store.ErrStorage) {
		t.Fatalf("Commit() error = %v, want storage error", err)
	}
	if got := stockQty(t, mem, shirt.ID); got != 5 {
		t.Errorf("shirt quantity = %d, want 5 after compensation", got)
	}
	bills, _ := repositories.NewBillRepository(mem).List(ctx)
	if len(bills) != 0 {
		t.Errorf("bills = %d, want the partial bill removed", len(bills))
	}
}

func TestCreateBillFromRequest(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	svc := NewBillService(db, NewStockLedger(db), billing.DefaultCategoryFields())
	cust := createCustomer(t, db, "Ravi")
	shirt := createStock(t, db, "Shirt", 4)
	price := dec("450")

	bill, err := svc.CreateBill(ctx, &models.CreateBillRequest{
		BillNumber:   "B-7",
		CustomerID:   cust.ID,
		Date:         "2024-05-01",
		DeliveryDate: "2024-05-04",
		Discount:     dec("100"),
		Advance:      dec("300"),
		Items: []models.CreateBillItemRequest{
			{StockID: shirt.ID, Quantity: 2, Price: &price, Measurements: models.Measurements{"chest": 40}},
		},
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	if !bill.Total.Equal(dec("900")) || !bill.GrandTotal.Equal(dec("800")) || !bill.Due.Equal(dec("500")) {
		t.Errorf("totals = %s / %s / %s", bill.Total, bill.GrandTotal, bill.Due)
	}

	got, err := svc.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Customer == nil || got.Customer.Name != "Ravi" || got.Status != models.SettlementPartial {
		t.Errorf("GetBill() = customer %v status %s", got.Customer, got.Status)
	}
}
