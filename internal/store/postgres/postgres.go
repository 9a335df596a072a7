// Package postgres stores records in a single JSONB table through a pgx pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tailor-backend/internal/store"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) List(ctx context.Context, coll string) ([]store.Record, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, data, created_at, updated_at
		FROM records
		WHERE collection = $1
		ORDER BY seq
	`, coll)
	if err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	return scanRecords(rows, coll)
}

func scanRecords(rows pgx.Rows, coll string) ([]store.Record, error) {
	defer rows.Close()

	out := []store.Record{}
	for rows.Next() {
		var rec store.Record
		var data []byte
		if err := rows.Scan(&rec.ID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, store.Wrap("list", coll, "", err)
		}
		rec.Data = data
		out = append(out, rec)
	}
	return out, store.Wrap("list", coll, "", rows.Err())
}

// plainName matches collection and field names that are safe to inline.
var plainName = regexp.MustCompile(`^[a-z][a-z_-]*$`)

// filterQuery builds the ListWhere statement. The collection and field are
// inlined so the planner can match the partial expression indexes in
// 002_record_lookups.sql; only the value is a parameter.
func filterQuery(coll, field string) (string, error) {
	if !plainName.MatchString(coll) || !plainName.MatchString(field) {
		return "", fmt.Errorf("unsupported filter %s.%s", coll, field)
	}
	return fmt.Sprintf(`
		SELECT id, data, created_at, updated_at
		FROM records
		WHERE collection = '%s' AND (data->>'%s') = $1
		ORDER BY seq
	`, coll, field), nil
}

func (s *Store) ListWhere(ctx context.Context, coll, field, value string) ([]store.Record, error) {
	query, err := filterQuery(coll, field)
	if err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	rows, err := s.q.Query(ctx, query, value)
	if err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	return scanRecords(rows, coll)
}

func (s *Store) Get(ctx context.Context, coll, id string) (store.Record, error) {
	rec := store.Record{ID: id}
	var data []byte
	err := s.q.QueryRow(ctx, `
		SELECT data, created_at, updated_at
		FROM records
		WHERE collection = $1 AND id = $2
	`, coll, id).Scan(&data, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Record{}, store.NotFound("get", coll, id)
	}
	if err != nil {
		return store.Record{}, store.Wrap("get", coll, id, err)
	}
	rec.Data = data
	return rec, nil
}

func (s *Store) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	rec := store.Record{ID: id, Data: data}
	err := s.q.QueryRow(ctx, `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		RETURNING created_at, updated_at
	`, coll, id, []byte(data)).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return store.Record{}, store.Wrap("put", coll, id, err)
	}
	return rec, nil
}

func (s *Store) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	rec := store.Record{ID: uuid.NewString(), Data: data}
	err := s.q.QueryRow(ctx, `
		INSERT INTO records (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`, coll, rec.ID, []byte(data)).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return store.Record{}, store.Wrap("append", coll, rec.ID, err)
	}
	return rec, nil
}

func (s *Store) Remove(ctx context.Context, coll, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, coll, id)
	if err != nil {
		return store.Wrap("remove", coll, id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.NotFound("remove", coll, id)
	}
	return nil
}

// InTx runs fn inside a database transaction. Calling InTx on the store
// handed to fn joins the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if _, inTx := s.q.(pgx.Tx); inTx {
		return fn(ctx, s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &Store{pool: s.pool, q: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
