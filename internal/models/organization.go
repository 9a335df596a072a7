package models

import "time"

// Organization is the shop's own profile. The system keeps exactly one.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phones    []string  `json:"phones"`
	Emails    []string  `json:"emails"`
	Address   string    `json:"address"`
	Logo      string    `json:"logo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateOrganizationRequest represents the organization setup form
type UpdateOrganizationRequest struct {
	Name    string   `json:"name"`
	Phones  []string `json:"phones"`
	Emails  []string `json:"emails"`
	Address string   `json:"address"`
	Logo    string   `json:"logo"`
}
