package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionToken is an opaque game-session token, stored hashed. At most one
// live token exists per account: issuing a new one revokes all prior rows
// for that account in the same transaction.
type SessionToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID int64     `gorm:"not null;index" json:"account_id"`
	TokenHash string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	Account   Account   `gorm:"foreignKey:AccountID" json:"-"`
}

// BeforeCreate ensures the UUID is set before insertion.
func (t *SessionToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (SessionToken) TableName() string {
	return "session_tokens"
}
