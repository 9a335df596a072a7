package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var itemStatuses = collection[models.ItemStatusEntry]{
	name: store.ItemStatus,
	envelope: func(e *models.ItemStatusEntry, rec store.Record) {
		e.ID, e.CreatedAt, e.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type ItemStatusRepository struct {
	DB store.Store
}

func NewItemStatusRepository(db store.Store) *ItemStatusRepository {
	return &ItemStatusRepository{DB: db}
}

func (r *ItemStatusRepository) Create(ctx context.Context, e *models.ItemStatusEntry) error {
	return itemStatuses.create(ctx, r.DB, e)
}

func (r *ItemStatusRepository) Get(ctx context.Context, id string) (*models.ItemStatusEntry, error) {
	return itemStatuses.get(ctx, r.DB, id)
}

func (r *ItemStatusRepository) List(ctx context.Context) ([]*models.ItemStatusEntry, error) {
	return itemStatuses.list(ctx, r.DB)
}

func (r *ItemStatusRepository) Update(ctx context.Context, e *models.ItemStatusEntry) error {
	return itemStatuses.update(ctx, r.DB, e.ID, e)
}
