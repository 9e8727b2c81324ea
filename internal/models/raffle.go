package models

import (
	"time"

	"gorm.io/gorm"
)

// Raffle is a single prize-pool campaign. The visible pool is split into a
// pending part (purchase intents awaiting payment review) and a confirmed part
// (approved purchases): intake bumps pending, approval moves the amount to
// confirmed, rejection releases it. CurrentAmount exposes the sum.
type Raffle struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Title           string   `gorm:"size:255;not null" json:"title"`
	Description     string   `gorm:"type:text" json:"description"`
	TicketPrice     float64  `gorm:"not null" json:"ticket_price"`
	GoalAmount      float64  `gorm:"not null" json:"goal_amount"`
	PendingAmount   float64  `gorm:"not null;default:0" json:"pending_amount"`
	ConfirmedAmount float64  `gorm:"not null;default:0" json:"confirmed_amount"`
	CurrentAmount   float64  `gorm:"-" json:"current_amount"`
	TicketsSold     int      `gorm:"not null;default:0" json:"tickets_sold"` // minted tickets only
	MaxTickets      *int     `json:"max_tickets,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Status          string   `gorm:"size:20;not null;index" json:"status"` // active | completed | cancelled

	// First-winner convenience fields, populated even when WinnerCount > 1.
	WinnerID            *uint      `json:"winner_id,omitempty"`
	WinningTicketID     *uint      `json:"winning_ticket_id,omitempty"`
	WinningTicketNumber *int       `json:"winning_ticket_number,omitempty"`
	WinnerName          string     `gorm:"size:128" json:"winner_name,omitempty"`
	ExecutedAt          *time.Time `json:"executed_at,omitempty"`

	WinnerCount      int     `gorm:"not null;default:1" json:"winner_count"`
	PrizePercentage  float64 `gorm:"not null;default:0.70" json:"prize_percentage"` // fraction of pool paid as prizes
	CauseName        string  `gorm:"size:255" json:"cause_name,omitempty"`
	CauseDescription string  `gorm:"type:text" json:"cause_description,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Raffle) TableName() string { return "raffles" }

// Pool returns the displayed prize pool: pending intents plus confirmed sales.
func (r *Raffle) Pool() float64 { return r.PendingAmount + r.ConfirmedAmount }

func (r *Raffle) AfterFind(*gorm.DB) error {
	r.CurrentAmount = r.Pool()
	return nil
}
