package repository

import (
	"rifa/internal/domain"
	"rifa/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(t *models.PurchaseTransaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByID(id uint) (*models.PurchaseTransaction, error) {
	var t models.PurchaseTransaction
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Update(t *models.PurchaseTransaction) error {
	return r.db.Save(t).Error
}

// ListForReview returns the admin payment queue, newest first. An empty status
// selects the default pending set (pending_payment and pending_review).
func (r *TransactionRepository) ListForReview(status string, limit int) ([]models.PurchaseTransaction, error) {
	q := r.db.Preload("User").Preload("Raffle")
	switch status {
	case "", "pending":
		q = q.Where("status IN ?", []string{domain.TxStatusPendingPayment, domain.TxStatusPendingReview})
	case "all":
		// no status filter
	default:
		q = q.Where("status = ?", status)
	}
	var txns []models.PurchaseTransaction
	err := q.Order("transaction_date DESC").Limit(limit).Find(&txns).Error
	return txns, err
}

// ListCompletedByRaffle feeds the recent-activity poller.
func (r *TransactionRepository) ListCompletedByRaffle(raffleID uint, limit int) ([]models.PurchaseTransaction, error) {
	var txns []models.PurchaseTransaction
	err := r.db.Preload("User").
		Where("raffle_id = ? AND status = ?", raffleID, domain.TxStatusCompleted).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// ListCompletedWithAffiliate returns completed transactions that carry an
// affiliate code, with their raffle preloaded for status filtering.
func (r *TransactionRepository) ListCompletedWithAffiliate(raffleID uint) ([]models.PurchaseTransaction, error) {
	q := r.db.Preload("Raffle").
		Where("status = ? AND affiliate_code IS NOT NULL", domain.TxStatusCompleted)
	if raffleID != 0 {
		q = q.Where("raffle_id = ?", raffleID)
	}
	var txns []models.PurchaseTransaction
	err := q.Find(&txns).Error
	return txns, err
}
