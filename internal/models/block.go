package models

import "time"

// Block is a player-level ignore entry: the blocker no longer sees lobby
// invites or chat from the blocked account.
type Block struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockerAccountID int64     `gorm:"not null;uniqueIndex:idx_blocks_pair" json:"blocker_account_id"`
	BlockedAccountID int64     `gorm:"not null;uniqueIndex:idx_blocks_pair" json:"blocked_account_id"`
	CreatedAt        time.Time `json:"created_at"`
	Blocker          Account   `gorm:"foreignKey:BlockerAccountID" json:"-"`
	Blocked          Account   `gorm:"foreignKey:BlockedAccountID" json:"-"`
}

func (Block) TableName() string {
	return "blocks"
}
