package repository

import "rfp-backend/internal/proposal/domain"

// ProposalRepository defines the interface for proposal data access.
// Proposals are append-only: the ingestion pass never updates or deletes them.
type ProposalRepository interface {
	// Create persists a new proposal, assigning an ID when none is set
	Create(proposal *domain.Proposal) error

	// FindByRFPID returns all proposals recorded for an RFP id, newest first
	FindByRFPID(rfpID string) ([]*domain.Proposal, error)
}
