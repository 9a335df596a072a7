package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Measurements maps a measurement field (e.g. "chest") to the value the tailor
// entered. Values are strings or numbers.
type Measurements map[string]interface{}

// Clone returns a shallow copy so candidates can be handed out without aliasing.
func (m Measurements) Clone() Measurements {
	if m == nil {
		return nil
	}
	out := make(Measurements, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BillLineItem is one row of a bill. Category is copied from the stock when the
// line is added and does not follow later category renames. Total is the
// authoritative amount; Price is derived from it for display.
type BillLineItem struct {
	ID           string          `json:"id"`
	StockID      string          `json:"stock_id"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Total        decimal.Decimal `json:"total"`
	Description  string          `json:"description,omitempty"`
	Measurements Measurements    `json:"measurements"`
}

// Payment is an append-only settlement record owned by one bill.
type Payment struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Bill is a committed, measurement-driven bill. Total, GrandTotal and Due are
// stored for readers of the raw records but are always recomputed from items,
// discount, advance and payments before a bill is saved.
type Bill struct {
	ID           string          `json:"id"`
	BillNumber   string          `json:"bill_number"`
	CustomerID   string          `json:"customer_id"`
	Customer     *Customer       `json:"customer,omitempty"`
	Date         time.Time       `json:"date"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Items        []BillLineItem  `json:"items"`
	Total        decimal.Decimal `json:"total"` // Subtotal: sum of line totals
	Discount     decimal.Decimal `json:"discount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Advance      decimal.Decimal `json:"advance"`
	Due          decimal.Decimal `json:"due"`
	Payments     []Payment       `json:"payments"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SettlementStatus is derived from advance, payments and grand total; never stored.
type SettlementStatus string

const (
	SettlementUnpaid  SettlementStatus = "unpaid"
	SettlementPartial SettlementStatus = "partial"
	SettlementPaid    SettlementStatus = "paid"
)

// BillSummary is a bill with its derived settlement fields, used by list and view screens.
type BillSummary struct {
	*Bill
	Paid   decimal.Decimal  `json:"paid"` // advance + payments
	Status SettlementStatus `json:"status"`
}

// CreateBillItemRequest is one line of a bill submission. Exactly one of Price
// (unit price) or Total (line total) must be set.
type CreateBillItemRequest struct {
	StockID      string           `json:"stock_id"`
	Quantity     int              `json:"quantity"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	Description  string           `json:"description"`
	Measurements Measurements     `json:"measurements"`
}

// CreateBillRequest represents the request body for committing a bill
type CreateBillRequest struct {
	BillNumber   string                  `json:"bill_number"`
	CustomerID   string                  `json:"customer_id"`
	Date         string                  `json:"date"`
	DeliveryDate string                  `json:"delivery_date"`
	Items        []CreateBillItemRequest `json:"items"`
	Discount     decimal.Decimal         `json:"discount"`
	Advance      decimal.Decimal         `json:"advance"`
}

// CreatePaymentRequest represents the request body for recording a payment
type CreatePaymentRequest struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CandidatesRequest asks for measurement sets that can be copied into a line.
type CandidatesRequest struct {
	CustomerID    string         `json:"customer_id"`
	Category      string         `json:"category"`
	ExcludeLineID string         `json:"exclude_line_id"`
	Lines         []BillLineItem `json:"lines"`
}
