package repository

import (
	"errors"
	"time"

	"rifa/internal/domain"
	"rifa/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository owns the multi-row atomic units of the raffle lifecycle:
// exclusive raffle creation, payment settlement, and draw settlement. Each
// method is a single database transaction; if any step fails, none of it is
// visible.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// lockRow adds a FOR UPDATE clause where the dialect supports it. sqlite has
// no row locks; its single-writer transaction covers the same serialization.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateExclusive creates a raffle as the only active one: any currently
// active raffle is cancelled in the same transaction, so two concurrent
// creations serialize on the row lock instead of racing a check-then-act.
func (r *LedgerRepository) CreateExclusive(raffle *models.Raffle) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var active []models.Raffle
		if err := lockRow(tx).
			Where("status = ?", domain.RaffleStatusActive).
			Find(&active).Error; err != nil {
			return err
		}
		for _, a := range active {
			if err := tx.Model(&models.Raffle{}).
				Where("id = ?", a.ID).
				Update("status", domain.RaffleStatusCancelled).Error; err != nil {
				return err
			}
		}
		return tx.Create(raffle).Error
	})
}

// CreatePurchase records a purchase intent and adds its amount to the raffle's
// pending pool in one transaction, so no intent can exist whose amount the
// pool never saw (a later reject subtracts it back unconditionally).
func (r *LedgerRepository) CreatePurchase(txn *models.PurchaseTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Raffle{}).
			Where("id = ?", txn.RaffleID).
			UpdateColumn("pending_amount", gorm.Expr("pending_amount + ?", txn.TotalAmount)).Error; err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
}

// ApproveTransaction settles an approved payment: it mints quantity tickets
// numbered sequentially after the raffle's current count, marks the
// transaction completed, and moves the amount from the pending to the
// confirmed pool. The raffle row is locked for the count-then-insert so two
// concurrent approvals cannot allocate overlapping ticket numbers.
func (r *LedgerRepository) ApproveTransaction(txnID, adminID uint, notes string) (int, error) {
	var minted int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var txn models.PurchaseTransaction
		if err := tx.First(&txn, txnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError("transaction %d not found", txnID)
			}
			return err
		}
		if domain.IsTerminalTxStatus(txn.Status) {
			return domain.StateConflictError("transaction already %s", txn.Status)
		}

		var raffle models.Raffle
		if err := lockRow(tx).First(&raffle, txn.RaffleID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Ticket{}).
			Where("raffle_id = ?", raffle.ID).
			Count(&count).Error; err != nil {
			return err
		}

		now := time.Now()
		tickets := make([]models.Ticket, txn.Quantity)
		for i := range tickets {
			tickets[i] = models.Ticket{
				RaffleID:       raffle.ID,
				UserID:         txn.UserID,
				TicketNumber:   int(count) + i + 1,
				PurchaseAmount: raffle.TicketPrice,
				PurchaseDate:   now,
				IsWinner:       false,
			}
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return err
		}

		ids := make(models.IDList, len(tickets))
		for i, t := range tickets {
			ids[i] = t.ID
		}
		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"status":      domain.TxStatusCompleted,
			"ticket_ids":  ids,
			"reviewed_at": now,
			"reviewed_by": adminID,
			"admin_notes": notes,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Raffle{}).
			Where("id = ?", raffle.ID).
			Updates(map[string]interface{}{
				"tickets_sold":     gorm.Expr("tickets_sold + ?", txn.Quantity),
				"pending_amount":   gorm.Expr("pending_amount - ?", txn.TotalAmount),
				"confirmed_amount": gorm.Expr("confirmed_amount + ?", txn.TotalAmount),
			}).Error; err != nil {
			return err
		}

		minted = len(tickets)
		return nil
	})
	return minted, err
}

// RejectTransaction marks a payment rejected and releases its pending pool
// contribution. No tickets are minted.
func (r *LedgerRepository) RejectTransaction(txnID, adminID uint, notes string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var txn models.PurchaseTransaction
		if err := tx.First(&txn, txnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError("transaction %d not found", txnID)
			}
			return err
		}
		if domain.IsTerminalTxStatus(txn.Status) {
			return domain.StateConflictError("transaction already %s", txn.Status)
		}

		now := time.Now()
		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"status":      domain.TxStatusRejected,
			"reviewed_at": now,
			"reviewed_by": adminID,
			"admin_notes": notes,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.Raffle{}).
			Where("id = ?", txn.RaffleID).
			UpdateColumn("pending_amount", gorm.Expr("pending_amount - ?", txn.TotalAmount)).Error
	})
}

// DrawSettlement carries everything the draw writes in one unit.
type DrawSettlement struct {
	RaffleID   uint
	ExecutedAt time.Time
	Winners    []models.Winner // positions already assigned, 1-based
	TicketIDs  []uint          // selected tickets, draw order

	// Position-1 convenience fields for single-winner consumers.
	WinnerID            uint
	WinningTicketID     uint
	WinningTicketNumber int
	WinnerName          string
}

// SettleDraw persists a completed draw: flips the raffle to completed, flags
// the selected tickets, and creates the winner rows. The status flip guards on
// the raffle still being active, so two racing executes cannot both settle.
func (r *LedgerRepository) SettleDraw(s *DrawSettlement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Raffle{}).
			Where("id = ? AND status = ?", s.RaffleID, domain.RaffleStatusActive).
			Updates(map[string]interface{}{
				"status":                domain.RaffleStatusCompleted,
				"executed_at":           s.ExecutedAt,
				"winner_id":             s.WinnerID,
				"winning_ticket_id":     s.WinningTicketID,
				"winning_ticket_number": s.WinningTicketNumber,
				"winner_name":           s.WinnerName,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.StateConflictError("raffle %d is no longer active", s.RaffleID)
		}
		if err := tx.Model(&models.Ticket{}).
			Where("id IN ?", s.TicketIDs).
			Update("is_winner", true).Error; err != nil {
			return err
		}
		return tx.Create(&s.Winners).Error
	})
}
