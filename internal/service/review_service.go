package service

import (
	"errors"
	"log"
	"strings"

	"rifa/config"
	"rifa/internal/domain"
	"rifa/internal/models"
	"rifa/internal/repository"

	"gorm.io/gorm"
)

const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// ReviewService drives the payment state machine:
// pending_payment -> pending_review -> completed | rejected.
type ReviewService struct {
	cfg     *config.RaffleConfig
	txnRepo *repository.TransactionRepository
	ledger  *repository.LedgerRepository
}

func NewReviewService(
	cfg *config.RaffleConfig,
	txnRepo *repository.TransactionRepository,
	ledger *repository.LedgerRepository,
) *ReviewService {
	return &ReviewService{cfg: cfg, txnRepo: txnRepo, ledger: ledger}
}

// ListQueue returns the admin payment queue, newest first.
func (s *ReviewService) ListQueue(status string) ([]models.PurchaseTransaction, error) {
	return s.txnRepo.ListForReview(status, s.cfg.PaymentQueueLimit)
}

// SubmitProof attaches a Yape payment screenshot to a pending transaction and
// moves it to pending_review.
func (s *ReviewService) SubmitProof(txnID uint, proofURL string) (*models.PurchaseTransaction, error) {
	if strings.TrimSpace(proofURL) == "" {
		return nil, domain.ValidationError("payment proof is required")
	}
	txn, err := s.txnRepo.GetByID(txnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFoundError("transaction not found")
		}
		return nil, err
	}
	if domain.IsTerminalTxStatus(txn.Status) {
		return nil, domain.StateConflictError("transaction already %s", txn.Status)
	}
	txn.PaymentProofURL = proofURL
	txn.Status = domain.TxStatusPendingReview
	if err := s.txnRepo.Update(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Review applies an admin decision. Approve mints the tickets and settles the
// counters in one atomic unit; reject requires notes and releases the pending
// pool contribution. Both fail with a state conflict when the transaction is
// already terminal.
func (s *ReviewService) Review(txnID, adminID uint, action, notes string) (int, error) {
	switch action {
	case ReviewActionApprove:
		minted, err := s.ledger.ApproveTransaction(txnID, adminID, strings.TrimSpace(notes))
		if err != nil {
			return 0, err
		}
		log.Printf("[review] transaction %d approved by admin %d: %d tickets minted", txnID, adminID, minted)
		return minted, nil
	case ReviewActionReject:
		if strings.TrimSpace(notes) == "" {
			return 0, domain.ValidationError("notes are required when rejecting a payment")
		}
		if err := s.ledger.RejectTransaction(txnID, adminID, strings.TrimSpace(notes)); err != nil {
			return 0, err
		}
		log.Printf("[review] transaction %d rejected by admin %d", txnID, adminID)
		return 0, nil
	default:
		return 0, domain.ValidationError("invalid action %q: must be approve or reject", action)
	}
}
