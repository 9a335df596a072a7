package models

import "time"

// StockTransactionKind represents the cause of a quantity change
type StockTransactionKind string

const (
	StockTransactionOpening    StockTransactionKind = "opening"    // Quantity the item was created with
	StockTransactionSale       StockTransactionKind = "sale"       // Deduction from a committed bill
	StockTransactionAdjustment StockTransactionKind = "adjustment" // Manual add/deduct
)

// Valid reports whether k is one of the known kinds.
func (k StockTransactionKind) Valid() bool {
	switch k {
	case StockTransactionOpening, StockTransactionSale, StockTransactionAdjustment:
		return true
	}
	return false
}

// StockTransaction is one quantity-affecting event for a stock item.
// Balance is derived during ledger reconstruction and is not persisted.
type StockTransaction struct {
	ID         string               `json:"id"`
	StockID    string               `json:"stock_id"`
	Date       time.Time            `json:"date"`
	Kind       StockTransactionKind `json:"kind"`
	Delta      int                  `json:"delta"`   // Signed: positive adds, negative deducts
	Balance    int                  `json:"balance"` // Running balance after this entry
	Reason     string               `json:"reason,omitempty"`
	BillID     string               `json:"bill_id,omitempty"`
	BillNumber string               `json:"bill_number,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}
