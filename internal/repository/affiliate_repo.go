package repository

import (
	"strings"

	"rifa/internal/models"

	"gorm.io/gorm"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

func (r *AffiliateRepository) Create(a *models.Affiliate) error {
	return r.db.Create(a).Error
}

func (r *AffiliateRepository) GetByID(id uint) (*models.Affiliate, error) {
	var a models.Affiliate
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) GetByCode(code string) (*models.Affiliate, error) {
	var a models.Affiliate
	if err := r.db.Where("code = ?", strings.ToUpper(code)).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) List(includeInactive bool) ([]models.Affiliate, error) {
	q := r.db.Order("created_at DESC")
	if !includeInactive {
		q = q.Where("active = ?", true)
	}
	var affiliates []models.Affiliate
	err := q.Find(&affiliates).Error
	return affiliates, err
}

func (r *AffiliateRepository) Update(a *models.Affiliate) error {
	return r.db.Save(a).Error
}

// SoftDelete deactivates an affiliate, preserving historical attribution.
func (r *AffiliateRepository) SoftDelete(id uint) error {
	return r.db.Model(&models.Affiliate{}).
		Where("id = ?", id).
		Update("active", false).Error
}
