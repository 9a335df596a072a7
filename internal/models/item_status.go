package models

import "time"

// ItemStatus tracks where a garment is in production
type ItemStatus string

const (
	ItemStatusInProgress ItemStatus = "in_progress"
	ItemStatusReady      ItemStatus = "ready"
	ItemStatusDelivered  ItemStatus = "delivered"
)

// Valid reports whether s is a known status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusInProgress, ItemStatusReady, ItemStatusDelivered:
		return true
	}
	return false
}

// ItemStatusEntry is one row on the production board.
type ItemStatusEntry struct {
	ID              string     `json:"id"`
	Date            time.Time  `json:"date"`
	ItemID          string     `json:"item_id"`
	TailorCounterID *string    `json:"tailor_counter_id"` // nil while unassigned
	Status          ItemStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateItemStatusRequest represents the request body for adding a board entry
type CreateItemStatusRequest struct {
	Date            string     `json:"date"`
	ItemID          string     `json:"item_id"`
	TailorCounterID *string    `json:"tailor_counter_id"`
	Status          ItemStatus `json:"status"`
}

// UpdateItemStatusRequest changes status and/or the assigned tailor
type UpdateItemStatusRequest struct {
	Status          ItemStatus `json:"status"`
	TailorCounterID *string    `json:"tailor_counter_id"`
}
