package models

import "time"

// TailorCounter is an external tailor (or counter) garments are handed to for stitching.
type TailorCounter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TailorCounterRequest is used for both create and update
type TailorCounterRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
