package repository

import (
	"rifa/internal/models"

	"gorm.io/gorm"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) GetByID(id uint) (*models.Ticket, error) {
	var t models.Ticket
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) CountByRaffle(raffleID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Ticket{}).
		Where("raffle_id = ?", raffleID).
		Count(&n).Error
	return n, err
}

func (r *TicketRepository) ListByRaffle(raffleID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := r.db.Where("raffle_id = ?", raffleID).
		Order("ticket_number ASC").
		Find(&tickets).Error
	return tickets, err
}

// ListByUser returns a user's tickets, optionally scoped to one raffle.
func (r *TicketRepository) ListByUser(userID uint, raffleID uint) ([]models.Ticket, error) {
	q := r.db.Where("user_id = ?", userID)
	if raffleID != 0 {
		q = q.Where("raffle_id = ?", raffleID)
	}
	var tickets []models.Ticket
	err := q.Order("purchase_date DESC").Find(&tickets).Error
	return tickets, err
}
