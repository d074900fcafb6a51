package models

import "time"

const (
	SanctionKindTemporary = "temporary"
	SanctionKindBan       = "ban"
)

// Sanction is a policy-driven penalty against an account. SanctionNumber is
// the 1-based escalation ordinal for the account. Rows are created only by
// the report repository transaction and mutated only by the reconciler.
type Sanction struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      int64      `gorm:"not null;uniqueIndex:idx_sanctions_account_number" json:"account_id"`
	SanctionNumber int        `gorm:"not null;uniqueIndex:idx_sanctions_account_number" json:"sanction_number"`
	Kind           string     `gorm:"size:20;not null" json:"kind"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	EndAt          *time.Time `gorm:"index" json:"end_at,omitempty"`
	LiftedAt       *time.Time `json:"lifted_at,omitempty"`
	Account        Account    `gorm:"foreignKey:AccountID" json:"-"`
}

func (Sanction) TableName() string {
	return "sanctions"
}

// Active reports whether the sanction is still in force at the given time.
func (s *Sanction) Active(now time.Time) bool {
	if s.LiftedAt != nil {
		return false
	}
	if s.EndAt == nil {
		return true
	}
	return s.EndAt.After(now)
}
