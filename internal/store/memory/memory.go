// Package memory is an in-process store. It backs tests and single-user
// deployments that do not need durability.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"tailor-backend/internal/store"
)

type collection struct {
	order   []string
	records map[string]store.Record
}

// Store keeps every collection in maps guarded by a RWMutex. Writes and
// transactions are serialized by writeMu; a transaction that fails restores
// the snapshot taken when it began.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	data    map[string]*collection
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]*collection),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) List(ctx context.Context, coll string) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[coll]
	if !ok {
		return []store.Record{}, nil
	}
	out := make([]store.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.records[id]))
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, coll, id string) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, store.Wrap("get", coll, id, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.data[coll]; ok {
		if rec, ok := c.records[id]; ok {
			return clone(rec), nil
		}
	}
	return store.Record{}, store.NotFound("get", coll, id)
}

func (s *Store) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.put(ctx, coll, id, data)
}

func (s *Store) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.put(ctx, coll, uuid.NewString(), data)
}

func (s *Store) Remove(ctx context.Context, coll, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.remove(ctx, coll, id)
}

// InTx runs fn with exclusive write access. Reads from outside the transaction
// may observe its writes before it finishes.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx, &txStore{s: s}); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, store.Wrap("put", coll, id, err)
	}
	if !json.Valid(data) {
		return store.Record{}, store.Wrap("put", coll, id, errInvalidJSON)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data[coll]
	if !ok {
		c = &collection{records: make(map[string]store.Record)}
		s.data[coll] = c
	}
	now := s.now()
	rec, exists := c.records[id]
	if !exists {
		rec = store.Record{ID: id, CreatedAt: now}
		c.order = append(c.order, id)
	}
	rec.UpdatedAt = now
	rec.Data = slices.Clone(data)
	c.records[id] = rec
	return clone(rec), nil
}

func (s *Store) remove(ctx context.Context, coll, id string) error {
	if err := ctx.Err(); err != nil {
		return store.Wrap("remove", coll, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data[coll]
	if !ok {
		return store.NotFound("remove", coll, id)
	}
	if _, ok := c.records[id]; !ok {
		return store.NotFound("remove", coll, id)
	}
	delete(c.records, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	return nil
}

func (s *Store) snapshot() map[string]*collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*collection, len(s.data))
	for name, c := range s.data {
		cp := &collection{
			order:   slices.Clone(c.order),
			records: make(map[string]store.Record, len(c.records)),
		}
		for id, rec := range c.records {
			cp.records[id] = rec
		}
		out[name] = cp
	}
	return out
}

func clone(r store.Record) store.Record {
	r.Data = slices.Clone(r.Data)
	return r
}

// txStore is the view handed to InTx callbacks. The parent's writeMu is
// already held.
type txStore struct {
	s *Store
}

func (t *txStore) List(ctx context.Context, coll string) ([]store.Record, error) {
	return t.s.List(ctx, coll)
}

func (t *txStore) Get(ctx context.Context, coll, id string) (store.Record, error) {
	return t.s.Get(ctx, coll, id)
}

func (t *txStore) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	return t.s.put(ctx, coll, id, data)
}

func (t *txStore) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	return t.s.put(ctx, coll, uuid.NewString(), data)
}

func (t *txStore) Remove(ctx context.Context, coll, id string) error {
	return t.s.remove(ctx, coll, id)
}

// InTx on a transaction view joins the enclosing transaction.
func (t *txStore) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}
