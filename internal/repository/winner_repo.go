package repository

import (
	"rifa/internal/models"

	"gorm.io/gorm"
)

type WinnerRepository struct {
	db *gorm.DB
}

func NewWinnerRepository(db *gorm.DB) *WinnerRepository {
	return &WinnerRepository{db: db}
}

func (r *WinnerRepository) ListByRaffle(raffleID uint) ([]models.Winner, error) {
	var winners []models.Winner
	err := r.db.Preload("User").Preload("Ticket").
		Where("raffle_id = ?", raffleID).
		Order("position ASC").
		Find(&winners).Error
	return winners, err
}
