package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a referral partner. Earnings are never stored; they are derived
// from completed transactions carrying the affiliate's code.
type Affiliate struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"uniqueIndex;size:64;not null" json:"code"` // stored upper-case
	Name           string         `gorm:"size:128;not null" json:"name"`
	Email          string         `gorm:"size:255;not null" json:"email"`
	CommissionRate float64        `gorm:"not null;default:0.05" json:"commission_rate"` // fraction in [0,1]
	Active         bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Affiliate) TableName() string { return "affiliates" }
