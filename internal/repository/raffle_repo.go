package repository

import (
	"rifa/internal/domain"
	"rifa/internal/models"

	"gorm.io/gorm"
)

type RaffleRepository struct {
	db *gorm.DB
}

func NewRaffleRepository(db *gorm.DB) *RaffleRepository {
	return &RaffleRepository{db: db}
}

func (r *RaffleRepository) GetByID(id uint) (*models.Raffle, error) {
	var raffle models.Raffle
	if err := r.db.First(&raffle, id).Error; err != nil {
		return nil, err
	}
	return &raffle, nil
}

// GetActive returns the single currently active raffle, if any.
func (r *RaffleRepository) GetActive() (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.db.Where("status = ?", domain.RaffleStatusActive).
		Order("created_at DESC").
		First(&raffle).Error
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

func (r *RaffleRepository) ListAll() ([]models.Raffle, error) {
	var raffles []models.Raffle
	err := r.db.Order("created_at DESC").Find(&raffles).Error
	return raffles, err
}

func (r *RaffleRepository) ListByStatus(status string) ([]models.Raffle, error) {
	var raffles []models.Raffle
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Find(&raffles).Error
	return raffles, err
}

// GetMostRecentCompleted returns the latest completed raffle that has a winner.
func (r *RaffleRepository) GetMostRecentCompleted() (*models.Raffle, error) {
	var raffle models.Raffle
	err := r.db.Where("status = ? AND winner_id IS NOT NULL", domain.RaffleStatusCompleted).
		Order("executed_at DESC").
		First(&raffle).Error
	if err != nil {
		return nil, err
	}
	return &raffle, nil
}

func (r *RaffleRepository) Update(raffle *models.Raffle) error {
	return r.db.Save(raffle).Error
}

func (r *RaffleRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Raffle{}).
		Where("id = ?", id).
		Update("status", status).Error
}
