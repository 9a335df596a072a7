// Package store is the keyed record store every repository persists through.
// A record is a JSON document with a string id and timestamps, grouped into
// named collections.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Collection names.
const (
	Stocks            = "stocks"
	Customers         = "customers"
	Bills             = "bills"
	Organization      = "organization"
	TailorCounters    = "tailor-counters"
	ItemStatus        = "item-status"
	StockTransactions = "stock-transactions"
)

// Collections lists every collection, in backup order.
var Collections = []string{
	Stocks, Customers, Bills, Organization, TailorCounters, ItemStatus, StockTransactions,
}

// Record is one stored document.
type Record struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Data      json.RawMessage `json:"data"`
}

// Store is the persistence boundary. Every method may fail with *StorageError.
type Store interface {
	// List returns the records of a collection in insertion order.
	List(ctx context.Context, collection string) ([]Record, error)
	// Get returns one record or a StorageError wrapping ErrNotFound.
	Get(ctx context.Context, collection, id string) (Record, error)
	// Put creates or replaces the record with id. CreatedAt is kept on replace.
	Put(ctx context.Context, collection, id string, data json.RawMessage) (Record, error)
	// Append stores data under a fresh id.
	Append(ctx context.Context, collection string, data json.RawMessage) (Record, error)
	// Remove deletes a record. Removing a missing id is ErrNotFound.
	Remove(ctx context.Context, collection, id string) error
}

// Transactor is implemented by stores that can run several writes atomically.
// fn receives a Store bound to the transaction; returning an error discards
// every write made through it.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// SupportsTx reports whether writes made through s inside InTx are atomic.
// Decorators that implement Transactor for any wrapped store answer through a
// Transactional method.
func SupportsTx(s Store) bool {
	if t, ok := s.(interface{ Transactional() bool }); ok {
		return t.Transactional()
	}
	_, ok := s.(Transactor)
	return ok
}

// Filterer is implemented by stores that can select records by a top-level
// string field of their JSON document without loading the whole collection.
type Filterer interface {
	// ListWhere returns the records of collection whose field equals value,
	// in insertion order.
	ListWhere(ctx context.Context, collection, field, value string) ([]Record, error)
}

// FilterRecords keeps the records whose field decodes to the string value.
// Records that are not JSON objects are skipped.
func FilterRecords(recs []Record, field, value string) []Record {
	out := []Record{}
	for _, rec := range recs {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(rec.Data, &doc); err != nil {
			continue
		}
		var got string
		if raw, ok := doc[field]; ok && json.Unmarshal(raw, &got) == nil && got == value {
			out = append(out, rec)
		}
	}
	return out
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}
