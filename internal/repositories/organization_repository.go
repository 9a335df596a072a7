package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

// OrganizationID is the id of the single organization record.
const OrganizationID = "default"

var organizations = collection[models.Organization]{
	name: store.Organization,
	envelope: func(o *models.Organization, rec store.Record) {
		o.ID, o.CreatedAt, o.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type OrganizationRepository struct {
	DB store.Store
}

func NewOrganizationRepository(db store.Store) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

// Get returns the organization or a not-found StorageError when none was saved yet.
func (r *OrganizationRepository) Get(ctx context.Context) (*models.Organization, error) {
	return organizations.get(ctx, r.DB, OrganizationID)
}

func (r *OrganizationRepository) Save(ctx context.Context, o *models.Organization) error {
	return organizations.put(ctx, r.DB, OrganizationID, o)
}
