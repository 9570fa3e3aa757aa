package repository

import (
	"strings"
	"time"

	"rfp-backend/internal/rfp/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRFPRepository implements RFPRepository using GORM
type gormRFPRepository struct {
	db *gorm.DB
}

// NewGormRFPRepository creates a new GORM-based RFPRepository
func NewGormRFPRepository(db *gorm.DB) RFPRepository {
	return &gormRFPRepository{db: db}
}

// NewRFPID returns a hex ID without hyphens so the subject tag regex
// RFP-([a-zA-Z0-9]+) captures it in full.
func NewRFPID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func (r *gormRFPRepository) Create(rfp *domain.RFP) error {
	if rfp.ID == "" {
		rfp.ID = NewRFPID()
	}
	rfp.CreatedAt = time.Now()
	rfp.UpdatedAt = time.Now()
	return r.db.Create(rfp).Error
}

func (r *gormRFPRepository) FindByID(id string) (*domain.RFP, error) {
	var rfp domain.RFP
	err := r.db.Where("id = ?", id).First(&rfp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rfp, nil
}

func (r *gormRFPRepository) FindAll() ([]*domain.RFP, error) {
	var rfps []*domain.RFP
	err := r.db.Order("created_at DESC").Find(&rfps).Error
	return rfps, err
}
