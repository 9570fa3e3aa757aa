package repository

import (
	"time"

	"rfp-backend/internal/proposal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProposalRepository implements ProposalRepository using GORM
type gormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GORM-based ProposalRepository
func NewGormProposalRepository(db *gorm.DB) ProposalRepository {
	return &gormProposalRepository{db: db}
}

func (r *gormProposalRepository) Create(proposal *domain.Proposal) error {
	if proposal.ID == "" {
		proposal.ID = uuid.New().String()
	}
	if proposal.ReceivedAt.IsZero() {
		proposal.ReceivedAt = time.Now()
	}
	return r.db.Create(proposal).Error
}

func (r *gormProposalRepository) FindByRFPID(rfpID string) ([]*domain.Proposal, error) {
	var proposals []*domain.Proposal
	err := r.db.Where("rfp_id = ?", rfpID).Order("received_at DESC").Find(&proposals).Error
	return proposals, err
}
