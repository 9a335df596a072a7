package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var stocks = collection[models.Stock]{
	name: store.Stocks,
	envelope: func(s *models.Stock, rec store.Record) {
		s.ID, s.CreatedAt, s.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type StockRepository struct {
	DB store.Store
}

func NewStockRepository(db store.Store) *StockRepository {
	return &StockRepository{DB: db}
}

// WithStore returns a repository bound to s, typically a transaction.
func (r *StockRepository) WithStore(s store.Store) *StockRepository {
	return &StockRepository{DB: s}
}

func (r *StockRepository) Create(ctx context.Context, s *models.Stock) error {
	return stocks.create(ctx, r.DB, s)
}

func (r *StockRepository) Get(ctx context.Context, id string) (*models.Stock, error) {
	return stocks.get(ctx, r.DB, id)
}

func (r *StockRepository) List(ctx context.Context) ([]*models.Stock, error) {
	return stocks.list(ctx, r.DB)
}

func (r *StockRepository) Update(ctx context.Context, s *models.Stock) error {
	return stocks.update(ctx, r.DB, s.ID, s)
}

func (r *StockRepository) Delete(ctx context.Context, id string) error {
	return stocks.remove(ctx, r.DB, id)
}
