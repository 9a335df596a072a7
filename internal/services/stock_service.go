package services

import (
	"context"
	"fmt"
	"strings"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/timeutil"
)

type StockService struct {
	Repo   *repositories.StockRepository
	Ledger *StockLedger
}

func NewStockService(ledger *StockLedger) *StockService {
	return &StockService{Repo: ledger.Stocks, Ledger: ledger}
}

func (s *StockService) CreateStock(ctx context.Context, req *models.CreateStockRequest) (*models.Stock, error) {
	verr := validateStockFields(req.Date, req.Name, req.Code, req.Category)
	if req.Quantity < 0 {
		verr.Add("quantity", "quantity must not be negative")
	}
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	stock := &models.Stock{
		Date:            date,
		Name:            strings.TrimSpace(req.Name),
		Code:            strings.TrimSpace(req.Code),
		Category:        strings.TrimSpace(req.Category),
		Quantity:        req.Quantity,
		OpeningQuantity: req.Quantity,
		HSCode:          strings.TrimSpace(req.HSCode),
	}
	if err := s.Repo.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *StockService) GetStock(ctx context.Context, id string) (*models.Stock, error) {
	return s.Repo.Get(ctx, id)
}

func (s *StockService) ListStocks(ctx context.Context) ([]*models.Stock, error) {
	return s.Repo.List(ctx)
}

// UpdateStock edits descriptive fields. Quantity is left alone; a category
// change does not reach lines already billed.
func (s *StockService) UpdateStock(ctx context.Context, id string, req *models.UpdateStockRequest) (*models.Stock, error) {
	verr := validateStockFields(req.Date, req.Name, req.Code, req.Category)
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	unlock, err := s.Ledger.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stock, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stock.Date = date
	stock.Name = strings.TrimSpace(req.Name)
	stock.Code = strings.TrimSpace(req.Code)
	stock.Category = strings.TrimSpace(req.Category)
	stock.HSCode = strings.TrimSpace(req.HSCode)
	if err := s.Repo.Update(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// DeleteStock removes the item. Bills that reference it keep their copy of the
// category and amounts.
func (s *StockService) DeleteStock(ctx context.Context, id string) error {
	unlock, err := s.Ledger.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()
	return s.Repo.Delete(ctx, id)
}

// AdjustStock applies the manual add/deduct form.
func (s *StockService) AdjustStock(ctx context.Context, id string, req *models.AdjustStockRequest) (*models.Stock, error) {
	verr := &billing.ValidationError{}
	if req.Quantity <= 0 {
		verr.Add("quantity", "quantity must be greater than 0")
	}
	var sign int
	switch req.Type {
	case "add":
		sign = 1
	case "deduct":
		sign = -1
	default:
		verr.Add("type", fmt.Sprintf("type must be add or deduct, got %q", req.Type))
	}
	if strings.TrimSpace(req.Reason) == "" {
		verr.Add("reason", "reason is required")
	}
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		verr.Add("date", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.Ledger.AdjustAt(ctx, id, sign*req.Quantity, models.StockTransactionAdjustment, strings.TrimSpace(req.Reason), date); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

func validateStockFields(date, name, code, category string) *billing.ValidationError {
	verr := &billing.ValidationError{}
	if strings.TrimSpace(date) == "" {
		verr.Add("date", "date is required")
	}
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "name is required")
	}
	if strings.TrimSpace(code) == "" {
		verr.Add("code", "code is required")
	}
	if strings.TrimSpace(category) == "" {
		verr.Add("category", "category is required")
	}
	return verr
}
