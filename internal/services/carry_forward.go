package services

import (
	"context"
	"iter"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
	"tailor-backend/internal/store"
)

// CarryForward looks up measurement sets a new line can copy from.
type CarryForward struct {
	Bills *repositories.BillRepository
}

func NewCarryForward(db store.Store) *CarryForward {
	return &CarryForward{Bills: repositories.NewBillRepository(db)}
}

// Candidates loads the customer's committed bills and returns the candidates
// for category. An empty customerID only searches the current lines.
func (c *CarryForward) Candidates(ctx context.Context, customerID, category, excludeLineID string, lines []models.BillLineItem) (iter.Seq[billing.Candidate], error) {
	var prior []models.Bill
	if customerID != "" {
		bills, err := c.Bills.ListByCustomer(ctx, customerID)
		if err != nil {
			return nil, err
		}
		prior = make([]models.Bill, 0, len(bills))
		for _, b := range bills {
			prior = append(prior, *b)
		}
	}
	return billing.FindCandidates(lines, category, excludeLineID, prior), nil
}
