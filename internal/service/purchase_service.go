package service

import (
	"errors"
	"strings"
	"time"

	"rifa/config"
	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"gorm.io/gorm"
)

// PurchaseService validates ticket purchase requests and records them as
// pending transactions. Tickets are never minted here; that happens only when
// an admin approves the payment.
type PurchaseService struct {
	cfg        *config.RaffleConfig
	raffleRepo *repository.RaffleRepository
	ledger     *repository.LedgerRepository
}

func NewPurchaseService(
	cfg *config.RaffleConfig,
	raffleRepo *repository.RaffleRepository,
	ledger *repository.LedgerRepository,
) *PurchaseService {
	return &PurchaseService{cfg: cfg, raffleRepo: raffleRepo, ledger: ledger}
}

// Purchase creates a pending_payment transaction for quantity tickets and
// reflects the amount in the raffle's pending pool, atomically.
func (s *PurchaseService) Purchase(raffleID, userID uint, quantity int, affiliateCode string) (*models.PurchaseTransaction, error) {
	if quantity <= 0 {
		return nil, domain.ValidationError("invalid quantity: must be a positive integer")
	}
	if quantity < domain.MinPurchaseQuantity || quantity > s.cfg.MaxTicketsPerPurchase {
		return nil, domain.ValidationError("quantity must be between %d and %d",
			domain.MinPurchaseQuantity, s.cfg.MaxTicketsPerPurchase)
	}

	raffle, err := s.raffleRepo.GetByID(raffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("raffle not found")
		}
		return nil, err
	}
	if raffle.Status != domain.RaffleStatusActive {
		return nil, domain.StateConflictError("raffle is %s, purchases are closed", raffle.Status)
	}

	if raffle.MaxTickets != nil {
		if raffle.TicketsSold+quantity > *raffle.MaxTickets {
			remaining := *raffle.MaxTickets - raffle.TicketsSold
			return nil, domain.CapacityError("not enough tickets available: only %d remaining", remaining)
		}
	}

	code := strings.ToUpper(strings.TrimSpace(affiliateCode))
	txn := &models.PurchaseTransaction{
		UserID:          userID,
		RaffleID:        raffleID,
		TicketIDs:       models.IDList{},
		Quantity:        quantity,
		TotalAmount:     raffle.TicketPrice * float64(quantity),
		TransactionDate: time.Now(),
		Status:          domain.TxStatusPendingPayment,
		PaymentMethod:   domain.PaymentMethodYape,
	}
	if code != "" {
		txn.AffiliateCode = &code
	}
	if err := s.ledger.CreatePurchase(txn); err != nil {
		return nil, err
	}
	return txn, nil
}
