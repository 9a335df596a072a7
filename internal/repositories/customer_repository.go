package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var customers = collection[models.Customer]{
	name: store.Customers,
	envelope: func(c *models.Customer, rec store.Record) {
		c.ID, c.CreatedAt, c.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type CustomerRepository struct {
	DB store.Store
}

func NewCustomerRepository(db store.Store) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	c.Referrer = nil
	return customers.create(ctx, r.DB, c)
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*models.Customer, error) {
	return customers.get(ctx, r.DB, id)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	return customers.list(ctx, r.DB)
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	c.Referrer = nil
	return customers.update(ctx, r.DB, c.ID, c)
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return customers.remove(ctx, r.DB, id)
}
