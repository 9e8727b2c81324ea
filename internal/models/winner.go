package models

import (
	"time"

	"gorm.io/gorm"
)

// Winner is one winning outcome. A raffle with winner_count = N ends with
// exactly N rows, positions 1..N in draw order.
type Winner struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RaffleID    uint           `gorm:"not null;index" json:"raffle_id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	TicketID    uint           `gorm:"not null;uniqueIndex" json:"ticket_id"`
	PrizeAmount float64        `gorm:"not null" json:"prize_amount"`
	Position    int            `gorm:"not null" json:"position"` // 1-based rank for display
	AnnouncedAt time.Time      `json:"announced_at"`
	ClaimedAt   *time.Time     `json:"claimed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Raffle Raffle `gorm:"foreignKey:RaffleID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"-"`
}

func (Winner) TableName() string { return "winners" }
