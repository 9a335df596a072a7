package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"tailor-backend/internal/store"
)

func TestPutGetListOrder(t *testing.T) {
	ctx := context.Background()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))

	for _, id := range []string{"c", "a", "b"} {
		if _, err := s.Put(ctx, store.Stocks, id, json.RawMessage(`{"name":"`+id+`"}`)); err != nil {
			t.Fatalf("Put(%s) error = %v", id, err)
		}
	}

	first, _ := s.Get(ctx, store.Stocks, "c")
	updated, err := s.Put(ctx, store.Stocks, "c", json.RawMessage(`{"name":"c2"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed on replace: %v -> %v", first.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(first.UpdatedAt) {
		t.Error("UpdatedAt not advanced on replace")
	}

	recs, err := s.List(ctx, store.Stocks)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Errorf("List() order = %v, want [c a b]", ids)
	}
	if string(recs[0].Data) != `{"name":"c2"}` {
		t.Errorf("record c data = %s", recs[0].Data)
	}
}

func TestGetRemoveNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, store.Bills, "missing"); !store.IsNotFound(err) {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}
	rec, err := s.Append(ctx, store.Bills, json.RawMessage(`{}`))
	if err != nil || rec.ID == "" {
		t.Fatalf("Append() = %+v, %v", rec, err)
	}
	if err := s.Remove(ctx, store.Bills, rec.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, store.Bills, rec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Remove() = %v, want not found", err)
	}
	if recs, _ := s.List(ctx, store.Bills); len(recs) != 0 {
		t.Errorf("List() after remove = %d records", len(recs))
	}
}

func TestPutRejectsInvalidJSON(t *testing.T) {
	_, err := New().Put(context.Background(), store.Stocks, "x", json.RawMessage(`{`))
	if !errors.Is(err, store.ErrStorage) {
		t.Errorf("Put(invalid) error = %v, want storage error", err)
	}
}

func TestReturnedDataIsCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	rec, _ := s.Put(ctx, store.Stocks, "x", json.RawMessage(`{"a":1}`))
	rec.Data[2] = 'b'

	got, _ := s.Get(ctx, store.Stocks, "x")
	if string(got.Data) != `{"a":1}` {
		t.Errorf("stored data mutated through returned record: %s", got.Data)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = s.Put(ctx, store.Stocks, "s1", json.RawMessage(`{"quantity":50}`))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := tx.Put(ctx, store.Stocks, "s1", json.RawMessage(`{"quantity":40}`)); err != nil {
			return err
		}
		if _, err := tx.Append(ctx, store.Bills, json.RawMessage(`{}`)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx() error = %v, want boom", err)
	}

	rec, _ := s.Get(ctx, store.Stocks, "s1")
	if string(rec.Data) != `{"quantity":50}` {
		t.Errorf("stock after rollback = %s", rec.Data)
	}
	if bills, _ := s.List(ctx, store.Bills); len(bills) != 0 {
		t.Errorf("bills after rollback = %d, want 0", len(bills))
	}
}

func TestInTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		_, err := tx.Put(ctx, store.Customers, "c1", json.RawMessage(`{"name":"Asha"}`))
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, store.Customers, "c1"); err != nil {
		t.Errorf("Get() after commit error = %v", err)
	}
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(ctx, store.StockTransactions, json.RawMessage(`{"delta":-1}`))
		}()
	}
	wg.Wait()
	recs, _ := s.List(ctx, store.StockTransactions)
	if len(recs) != 100 {
		t.Errorf("got %d records, want 100", len(recs))
	}
}
