package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket is one numbered entry in a raffle. Numbers are 1-based and sequential
// per raffle with no gaps; the draw's uniformity depends on that.
type Ticket struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	RaffleID       uint           `gorm:"not null;uniqueIndex:idx_raffle_ticket_number" json:"raffle_id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	TicketNumber   int            `gorm:"not null;uniqueIndex:idx_raffle_ticket_number" json:"ticket_number"`
	PurchaseAmount float64        `gorm:"not null" json:"purchase_amount"` // price at minting time
	PurchaseDate   time.Time      `json:"purchase_date"`
	IsWinner       bool           `gorm:"not null;default:false" json:"is_winner"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Raffle Raffle `gorm:"foreignKey:RaffleID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (Ticket) TableName() string { return "tickets" }
