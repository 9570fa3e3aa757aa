package repository

import "rfp-backend/internal/rfp/domain"

// RFPRepository defines the interface for RFP data access
type RFPRepository interface {
	// Create persists a new RFP, assigning an ID when none is set
	Create(rfp *domain.RFP) error

	// FindByID finds an RFP by its ID, returning nil when not found
	FindByID(id string) (*domain.RFP, error)

	// FindAll returns all RFPs, newest first
	FindAll() ([]*domain.RFP, error)
}
