package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is a player account. SanctionCount is the per-account escalation
// ordinal counter: it is incremented atomically inside the same transaction
// that inserts a Sanction row, is strictly increasing, and is never reused.
type Account struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Username        string         `gorm:"size:32;not null;uniqueIndex" json:"username"`
	Password        string         `gorm:"not null" json:"-"`
	Role            string         `gorm:"size:20;default:'player'" json:"role"`
	SanctionCount   int            `gorm:"not null;default:0" json:"-"`
	SanctionedUntil *time.Time     `json:"sanctioned_until,omitempty"`
	BannedAt        *time.Time     `json:"banned_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}
