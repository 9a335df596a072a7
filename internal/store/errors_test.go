package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestStorageErrorMatching(t *testing.T) {
	err := NotFound("get", Bills, "b1")
	if !errors.Is(err, ErrStorage) {
		t.Error("not-found error does not match ErrStorage")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false")
	}
	if got := err.Error(); got != "store get bills/b1: record not found" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("connection refused")
	wrapped := Wrap("list", Stocks, "", cause)
	if !errors.Is(wrapped, cause) || IsNotFound(wrapped) {
		t.Errorf("Wrap() = %v", wrapped)
	}
	if Wrap("list", Stocks, "", wrapped) != wrapped {
		t.Error("Wrap() re-wrapped a StorageError")
	}
	if Wrap("put", Stocks, "x", nil) != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestFilterRecords(t *testing.T) {
	recs := []Record{
		{ID: "1", Data: json.RawMessage(`{"customer_id":"c1","total":"10"}`)},
		{ID: "2", Data: json.RawMessage(`{"customer_id":"c2"}`)},
		{ID: "3", Data: json.RawMessage(`{"customer_id":7}`)},
		{ID: "4", Data: json.RawMessage(`[1,2]`)},
		{ID: "5", Data: json.RawMessage(`{"customer_id":"c1"}`)},
	}

	got := FilterRecords(recs, "customer_id", "c1")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "5" {
		t.Errorf("FilterRecords(c1) = %+v", got)
	}
	if got := FilterRecords(recs, "missing", ""); len(got) != 0 {
		t.Errorf("FilterRecords(missing field) = %+v, want none", got)
	}
}

type plainStore struct{ Store }

type txStore struct{ Store }

func (txStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return nil
}

type decoratedStore struct {
	txStore
	atomic bool
}

func (d decoratedStore) Transactional() bool { return d.atomic }

func TestSupportsTx(t *testing.T) {
	tests := []struct {
		name string
		s    Store
		want bool
	}{
		{"no transactions", plainStore{}, false},
		{"transactor", txStore{}, true},
		{"decorator over plain store", decoratedStore{atomic: false}, false},
		{"decorator over transactor", decoratedStore{atomic: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SupportsTx(tt.s); got != tt.want {
				t.Errorf("SupportsTx() = %v, want %v", got, tt.want)
			}
		})
	}
}
