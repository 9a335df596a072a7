package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
	"tailor-backend/internal/timeutil"
)

func createStock(t *testing.T, db store.Store, category string, qty int) *models.Stock {
	t.Helper()
	svc := NewStockService(NewStockLedger(db))
	stock, err := svc.CreateStock(context.Background(), &models.CreateStockRequest{
		Date:     "2024-04-01",
		Name:     category + " stock",
		Code:     "C-" + category,
		Category: category,
		Quantity: qty,
	})
	if err != nil {
		t.Fatalf("CreateStock() error = %v", err)
	}
	return stock
}

func createCustomer(t *testing.T, db store.Store, name string) *models.Customer {
	t.Helper()
	c := &models.Customer{Name: name, Phone: "9000000000", Address: "Main Bazaar"}
	if err := repositories.NewCustomerRepository(db).Create(context.Background(), c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// draftFor builds a valid draft with one line per (stock, qty, total) triple.
func draftFor(t *testing.T, customerID string, lines ...lineInput) *billing.Draft {
	t.Helper()
	d := billing.NewDraft(billing.DefaultCategoryFields())
	d.SetCustomer(customerID)
	d.SetBillNumber("B-1")
	d.SetDates(date("2024-05-01"), date("2024-05-08"))
	for _, l := range lines {
		id, err := d.AddLine(*l.stock, l.qty, billing.LineTotal(dec(l.total)), "")
		if err != nil {
			t.Fatalf("AddLine() error = %v", err)
		}
		if err := d.SetMeasurements(id, models.Measurements{"length": "40"}); err != nil {
			t.Fatalf("SetMeasurements() error = %v", err)
		}
	}
	return d
}

type lineInput struct {
	stock *models.Stock
	qty   int
	total string
}

func stockQty(t *testing.T, db store.Store, id string) int {
	t.Helper()
	s, err := repositories.NewStockRepository(db).Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get stock: %v", err)
	}
	return s.Quantity
}

func date(s string) time.Time {
	t, err := timeutil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
