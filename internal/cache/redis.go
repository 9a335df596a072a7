package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"tailor-backend/internal/logger"
	"tailor-backend/internal/store"
)

const keyPrefix = "store:"

// Connect opens a Redis client and pings it. On failure the client is closed
// and nil is returned with the error, so callers can continue uncached.
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Store is a read-through cache in front of another store. List and Get
// results are cached per collection; every write drops the affected keys.
// With a nil client it forwards everything to the wrapped store.
type Store struct {
	next   store.Store
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func New(next store.Store, client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("cache"),
	}
}

func listKey(coll string) string { return keyPrefix + coll + ":list" }
func recordKey(coll, id string) string { return keyPrefix + coll + ":id:" + id }

func (s *Store) List(ctx context.Context, coll string) ([]store.Record, error) {
	key := listKey(coll)
	var recs []store.Record
	if s.getCached(ctx, key, &recs) {
		return recs, nil
	}
	recs, err := s.next.List(ctx, coll)
	if err != nil {
		return nil, err
	}
	s.setCached(ctx, key, recs)
	return recs, nil
}

func (s *Store) Get(ctx context.Context, coll, id string) (store.Record, error) {
	key := recordKey(coll, id)
	var rec store.Record
	if s.getCached(ctx, key, &rec) {
		return rec, nil
	}
	rec, err := s.next.Get(ctx, coll, id)
	if err != nil {
		return store.Record{}, err
	}
	s.setCached(ctx, key, rec)
	return rec, nil
}

func (s *Store) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	rec, err := s.next.Put(ctx, coll, id, data)
	s.invalidateKeys(ctx, listKey(coll), recordKey(coll, id))
	return rec, err
}

func (s *Store) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	rec, err := s.next.Append(ctx, coll, data)
	s.invalidateKeys(ctx, listKey(coll))
	return rec, err
}

func (s *Store) Remove(ctx context.Context, coll, id string) error {
	err := s.next.Remove(ctx, coll, id)
	s.invalidateKeys(ctx, listKey(coll), recordKey(coll, id))
	return err
}

// InTx forwards to the wrapped store when it supports transactions. Reads
// inside the transaction bypass the cache; the keys it wrote are dropped once
// it finishes, whether it committed or not.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	txr, ok := s.next.(store.Transactor)
	if !ok {
		return fn(ctx, s)
	}
	touched := &touchedKeys{}
	defer func() { s.invalidateKeys(context.WithoutCancel(ctx), touched.keys...) }()
	return txr.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		return fn(ctx, &trackingStore{Store: tx, touched: touched})
	})
}

// Transactional reports whether InTx is atomic, which is the case only when
// the wrapped store supports transactions.
func (s *Store) Transactional() bool {
	return store.SupportsTx(s.next)
}

// ListWhere is not cached; it forwards to the wrapped store when that can
// filter, and otherwise filters the cached collection.
func (s *Store) ListWhere(ctx context.Context, coll, field, value string) ([]store.Record, error) {
	if f, ok := s.next.(store.Filterer); ok {
		return f.ListWhere(ctx, coll, field, value)
	}
	recs, err := s.List(ctx, coll)
	if err != nil {
		return nil, err
	}
	return store.FilterRecords(recs, field, value), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.next.(store.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// IsHealthy returns true if the Redis connection is working.
func (s *Store) IsHealthy(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// InvalidateAll removes every cached record. Called on startup because the
// cache may outlive the process that filled it.
func (s *Store) InvalidateAll(ctx context.Context) {
	s.invalidatePattern(ctx, keyPrefix+"*")
}

func (s *Store) getCached(ctx context.Context, key string, dst interface{}) bool {
	if s.client == nil {
		return false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		s.client.Del(ctx, key)
		return false
	}
	return true
}

func (s *Store) setCached(ctx context.Context, key string, v interface{}) {
	if s.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.client.Set(ctx, key, data, s.ttl)
}

func (s *Store) invalidateKeys(ctx context.Context, keys ...string) {
	if s.client == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

func (s *Store) invalidatePattern(ctx context.Context, pattern string) {
	if s.client == nil {
		return
	}
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		s.client.Del(ctx, keys...)
	}
}

type touchedKeys struct {
	keys []string
}

func (t *touchedKeys) add(keys ...string) { t.keys = append(t.keys, keys...) }

// trackingStore records which keys a transaction wrote.
type trackingStore struct {
	store.Store
	touched *touchedKeys
}

func (t *trackingStore) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	t.touched.add(listKey(coll), recordKey(coll, id))
	return t.Store.Put(ctx, coll, id, data)
}

func (t *trackingStore) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	t.touched.add(listKey(coll))
	return t.Store.Append(ctx, coll, data)
}

func (t *trackingStore) Remove(ctx context.Context, coll, id string) error {
	t.touched.add(listKey(coll), recordKey(coll, id))
	return t.Store.Remove(ctx, coll, id)
}

func (t *trackingStore) ListWhere(ctx context.Context, coll, field, value string) ([]store.Record, error) {
	if f, ok := t.Store.(store.Filterer); ok {
		return f.ListWhere(ctx, coll, field, value)
	}
	recs, err := t.Store.List(ctx, coll)
	if err != nil {
		return nil, err
	}
	return store.FilterRecords(recs, field, value), nil
}

func (t *trackingStore) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, t)
}
