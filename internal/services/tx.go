package services

import (
	"context"

	"tailor-backend/internal/store"
)

// runInTx runs fn inside a store transaction when db supports one, and
// directly against db otherwise.
func runInTx(ctx context.Context, db store.Store, fn func(ctx context.Context, tx store.Store) error) error {
	if txr, ok := db.(store.Transactor); ok {
		return txr.InTx(ctx, fn)
	}
	return fn(ctx, db)
}
