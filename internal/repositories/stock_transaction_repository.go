package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var stockTransactions = collection[models.StockTransaction]{
	name: store.StockTransactions,
	envelope: func(t *models.StockTransaction, rec store.Record) {
		t.ID, t.CreatedAt = rec.ID, rec.CreatedAt
	},
}

// StockTransactionRepository stores the quantity-changing events of every
// stock item. Records are append-only.
type StockTransactionRepository struct {
	DB store.Store
}

func NewStockTransactionRepository(db store.Store) *StockTransactionRepository {
	return &StockTransactionRepository{DB: db}
}

func (r *StockTransactionRepository) WithStore(s store.Store) *StockTransactionRepository {
	return &StockTransactionRepository{DB: s}
}

// Create persists t. The running balance is derived on read and never stored.
func (r *StockTransactionRepository) Create(ctx context.Context, t *models.StockTransaction) error {
	t.Balance = 0
	return stockTransactions.create(ctx, r.DB, t)
}

// ListByStock returns the transactions of one stock item in insertion order.
func (r *StockTransactionRepository) ListByStock(ctx context.Context, stockID string) ([]*models.StockTransaction, error) {
	return stockTransactions.listWhere(ctx, r.DB, "stock_id", stockID)
}
