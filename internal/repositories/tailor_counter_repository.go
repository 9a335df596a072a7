package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var tailorCounters = collection[models.TailorCounter]{
	name: store.TailorCounters,
	envelope: func(t *models.TailorCounter, rec store.Record) {
		t.ID, t.CreatedAt, t.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type TailorCounterRepository struct {
	DB store.Store
}

func NewTailorCounterRepository(db store.Store) *TailorCounterRepository {
	return &TailorCounterRepository{DB: db}
}

func (r *TailorCounterRepository) Create(ctx context.Context, t *models.TailorCounter) error {
	return tailorCounters.create(ctx, r.DB, t)
}

func (r *TailorCounterRepository) Get(ctx context.Context, id string) (*models.TailorCounter, error) {
	return tailorCounters.get(ctx, r.DB, id)
}

func (r *TailorCounterRepository) List(ctx context.Context) ([]*models.TailorCounter, error) {
	return tailorCounters.list(ctx, r.DB)
}

func (r *TailorCounterRepository) Update(ctx context.Context, t *models.TailorCounter) error {
	return tailorCounters.update(ctx, r.DB, t.ID, t)
}

func (r *TailorCounterRepository) Delete(ctx context.Context, id string) error {
	return tailorCounters.remove(ctx, r.DB, id)
}
