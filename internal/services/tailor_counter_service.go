package services

import (
	"context"
	"strings"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

type TailorCounterService struct {
	Repo *repositories.TailorCounterRepository
}

func NewTailorCounterService(repo *repositories.TailorCounterRepository) *TailorCounterService {
	return &TailorCounterService{Repo: repo}
}

func (s *TailorCounterService) CreateTailorCounter(ctx context.Context, req *models.TailorCounterRequest) (*models.TailorCounter, error) {
	tc := &models.TailorCounter{}
	if err := applyTailorCounter(tc, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TailorCounterService) GetTailorCounter(ctx context.Context, id string) (*models.TailorCounter, error) {
	return s.Repo.Get(ctx, id)
}

func (s *TailorCounterService) ListTailorCounters(ctx context.Context) ([]*models.TailorCounter, error) {
	return s.Repo.List(ctx)
}

func (s *TailorCounterService) UpdateTailorCounter(ctx context.Context, id string, req *models.TailorCounterRequest) (*models.TailorCounter, error) {
	tc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyTailorCounter(tc, req); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TailorCounterService) DeleteTailorCounter(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func applyTailorCounter(tc *models.TailorCounter, req *models.TailorCounterRequest) error {
	verr := &billing.ValidationError{}
	name, phone, address := strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Address)
	if name == "" {
		verr.Add("name", "name is required")
	}
	if phone == "" {
		verr.Add("phone", "phone is required")
	}
	if address == "" {
		verr.Add("address", "address is required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	tc.Name, tc.Phone, tc.Address = name, phone, address
	return nil
}
