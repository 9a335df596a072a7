package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

var bills = collection[models.Bill]{
	name: store.Bills,
	envelope: func(b *models.Bill, rec store.Record) {
		b.ID, b.CreatedAt, b.UpdatedAt = rec.ID, rec.CreatedAt, rec.UpdatedAt
	},
}

type BillRepository struct {
	DB store.Store
}

func NewBillRepository(db store.Store) *BillRepository {
	return &BillRepository{DB: db}
}

func (r *BillRepository) WithStore(s store.Store) *BillRepository {
	return &BillRepository{DB: s}
}

// Create persists a new bill. The resolved customer is not stored.
func (r *BillRepository) Create(ctx context.Context, b *models.Bill) error {
	return r.save(ctx, b, bills.create)
}

func (r *BillRepository) Get(ctx context.Context, id string) (*models.Bill, error) {
	return bills.get(ctx, r.DB, id)
}

// List returns all bills in the order they were committed.
func (r *BillRepository) List(ctx context.Context) ([]*models.Bill, error) {
	return bills.list(ctx, r.DB)
}

// ListByCustomer returns a customer's bills in the order they were committed.
func (r *BillRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Bill, error) {
	return bills.listWhere(ctx, r.DB, "customer_id", customerID)
}

func (r *BillRepository) Update(ctx context.Context, b *models.Bill) error {
	return r.save(ctx, b, func(ctx context.Context, s store.Store, b *models.Bill) error {
		return bills.update(ctx, s, b.ID, b)
	})
}

func (r *BillRepository) save(ctx context.Context, b *models.Bill, write func(context.Context, store.Store, *models.Bill) error) error {
	customer := b.Customer
	b.Customer = nil
	err := write(ctx, r.DB, b)
	b.Customer = customer
	return err
}
