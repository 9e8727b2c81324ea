package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// IDList stores a slice of row IDs as a JSON text column.
type IDList []uint

func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IDList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into IDList", value)
	}
}

// PurchaseTransaction is a purchase intent. It is created pending_payment with
// no tickets; tickets exist only after an admin approves the payment.
type PurchaseTransaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	RaffleID        uint      `gorm:"not null;index" json:"raffle_id"`
	TicketIDs       IDList    `gorm:"type:text" json:"ticket_ids"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	TotalAmount     float64   `gorm:"not null" json:"total_amount"` // ticket price x quantity at intake
	TransactionDate time.Time `gorm:"index" json:"transaction_date"`
	Status          string    `gorm:"size:20;not null;index" json:"status"`

	// Yape payment verification fields.
	PaymentProofURL string     `gorm:"size:512" json:"payment_proof_url,omitempty"`
	PaymentMethod   string     `gorm:"size:20;default:'yape'" json:"payment_method"`
	AdminNotes      string     `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *uint      `json:"reviewed_by,omitempty"`

	AffiliateCode *string `gorm:"size:64;index" json:"affiliate_code,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Raffle Raffle `gorm:"foreignKey:RaffleID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (PurchaseTransaction) TableName() string { return "purchase_transactions" }

// ReferenceCode is the short code buyers quote in their Yape transfer note.
func (t *PurchaseTransaction) ReferenceCode() string {
	return fmt.Sprintf("RF-%06d", t.ID)
}
