package models

import "time"

// Stock is a sellable item held by the shop (fabric, ready garments, accessories).
// Quantity only changes through the stock ledger; OpeningQuantity is the quantity
// the item was created with and anchors ledger reconstruction.
type Stock struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`     // business-assigned, unique by convention
	Category        string    `json:"category"` // decides which measurements apply
	Quantity        int       `json:"quantity"`
	OpeningQuantity int       `json:"opening_quantity"`
	HSCode          string    `json:"hs_code,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateStockRequest represents the request body for creating a stock item
type CreateStockRequest struct {
	Date     string `json:"date"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	HSCode   string `json:"hs_code"`
}

// UpdateStockRequest has no quantity: quantity changes go through adjustments.
type UpdateStockRequest struct {
	Date     string `json:"date"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
	HSCode   string `json:"hs_code"`
}

// AdjustStockRequest is the manual add/deduct form.
type AdjustStockRequest struct {
	Quantity int    `json:"quantity"`
	Type     string `json:"type"` // "add" or "deduct"
	Reason   string `json:"reason"`
	Date     string `json:"date,omitempty"`
}

// DashboardSummary is the stock overview shown on the landing page.
type DashboardSummary struct {
	TotalItems    int      `json:"total_items"`
	TotalUnits    int      `json:"total_units"`
	LowStockItems []*Stock `json:"low_stock_items"`
	CustomerCount int      `json:"customer_count"`
	BillCount     int      `json:"bill_count"`
	OpenBillCount int      `json:"open_bill_count"`
}
