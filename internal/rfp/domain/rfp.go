package domain

import "time"

// RFPStatus represents the lifecycle state of a request-for-proposal
type RFPStatus string

const (
	RFPStatusActive RFPStatus = "Active"
	RFPStatusClosed RFPStatus = "Closed"
)

// LineItem is one requested item inside an RFP
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Specs    string `json:"specs"`
}

// RFP represents a structured request-for-proposal, either extracted by the AI
// from free text or submitted directly. The ID is a hex string (no hyphens) so
// it survives the RFP-<id> subject tag round-trip through vendor replies.
type RFP struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title"`
	Items     []LineItem `json:"items" gorm:"serializer:json"`
	Budget    *float64   `json:"budget,omitempty"`
	Currency  string     `json:"currency" gorm:"default:INR"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	CreatedBy string     `json:"created_by" gorm:"default:User"`
	Status    RFPStatus  `json:"status" gorm:"default:Active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
