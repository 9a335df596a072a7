package services

import (
	"context"
	"strings"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
)

type CustomerService struct {
	Repo *repositories.CustomerRepository
}

func NewCustomerService(repo *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{Repo: repo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     strings.TrimSpace(req.Address),
		Avatar:      req.Avatar,
		Description: req.Description,
		ReferrerID:  strings.TrimSpace(req.ReferrerID),
	}
	if err := s.validate(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns the customer with its referrer resolved one level deep.
// A referrer that no longer exists is left unresolved.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.ReferrerID != "" {
		ref, err := s.Repo.Get(ctx, customer.ReferrerID)
		switch {
		case err == nil:
			ref.Referrer = nil
			customer.Referrer = ref
		case !store.IsNotFound(err):
			return nil, err
		}
	}
	return customer, nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.Repo.List(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(req.Name)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Address = strings.TrimSpace(req.Address)
	customer.Avatar = req.Avatar
	customer.Description = req.Description
	customer.ReferrerID = strings.TrimSpace(req.ReferrerID)

	if err := s.validate(ctx, customer); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, id)
}

// DeleteCustomer removes the customer. Bills keep the id and show no name.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *CustomerService) validate(ctx context.Context, c *models.Customer) error {
	verr := &billing.ValidationError{}
	if c.Name == "" {
		verr.Add("name", "name is required")
	}
	if c.Phone == "" {
		verr.Add("phone", "phone is required")
	}
	if c.Address == "" {
		verr.Add("address", "address is required")
	}
	if c.ReferrerID != "" {
		if c.ID != "" && c.ReferrerID == c.ID {
			verr.Add("referrer_id", "a customer cannot refer themselves")
		} else if _, err := s.Repo.Get(ctx, c.ReferrerID); err != nil {
			if !store.IsNotFound(err) {
				return err
			}
			verr.Add("referrer_id", "referrer not found")
		}
	}
	return verr.OrNil()
}
