package services

import (
	"context"
	"sort"

	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

type DashboardService struct {
	Stocks            *repositories.StockRepository
	Customers         *repositories.CustomerRepository
	Bills             *repositories.BillRepository
	LowStockThreshold int
}

func NewDashboardService(stocks *repositories.StockRepository, customers *repositories.CustomerRepository, bills *repositories.BillRepository, lowStockThreshold int) *DashboardService {
	return &DashboardService{
		Stocks:            stocks,
		Customers:         customers,
		Bills:             bills,
		LowStockThreshold: lowStockThreshold,
	}
}

// Summary counts stock, customers and bills. Items below the threshold are
// listed lowest quantity first. A bill is open while anything is still due.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	stocks, err := s.Stocks.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.Bills.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TotalItems:    len(stocks),
		LowStockItems: []*models.Stock{},
		CustomerCount: len(customers),
		BillCount:     len(bills),
	}
	for _, st := range stocks {
		summary.TotalUnits += st.Quantity
		if st.Quantity < s.LowStockThreshold {
			summary.LowStockItems = append(summary.LowStockItems, st)
		}
	}
	sort.SliceStable(summary.LowStockItems, func(i, j int) bool {
		return summary.LowStockItems[i].Quantity < summary.LowStockItems[j].Quantity
	})
	for _, b := range bills {
		if b.Due.IsPositive() {
			summary.OpenBillCount++
		}
	}
	return summary, nil
}
