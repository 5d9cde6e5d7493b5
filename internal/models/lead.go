package models

import "time"

// LeadStatus is the contact status of a lead. The only transition is new to contacted.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
)

// Lead represents an enrollment form submission
type Lead struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Phone  string     `json:"phone"`
	Date   time.Time  `json:"date"`
	Status LeadStatus `json:"status"`
}

// CreateLeadRequest represents the enrollment form body
type CreateLeadRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
