package models

import "time"

// Customer is a person the shop tailors for. ReferrerID is a weak reference to
// another customer; Referrer is only filled when resolved for display (one hop).
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Avatar      string    `json:"avatar,omitempty"`
	Description string    `json:"description,omitempty"`
	ReferrerID  string    `json:"referrer_id,omitempty"`
	Referrer    *Customer `json:"referrer,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	ReferrerID  string `json:"referrer_id"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	ReferrerID  string `json:"referrer_id"`
}
