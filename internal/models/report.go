package models

import "time"

// Report is the immutable audit record of an abuse report. Rows are kept
// forever; the only mutation ever applied is setting AppliedSanctionID, at
// most once, inside the transaction that created the row.
type Report struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReporterAccountID int64      `gorm:"not null;index:idx_reports_reporter_target" json:"reporter_account_id"`
	ReportedAccountID int64      `gorm:"not null;index:idx_reports_reporter_target;index" json:"reported_account_id"`
	LobbyID           *int64     `json:"lobby_id,omitempty"`
	ReasonCode        string     `gorm:"size:50;not null" json:"reason_code"`
	Comment           string     `gorm:"size:500" json:"comment,omitempty"`
	AppliedSanctionID *int64     `json:"applied_sanction_id,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;index" json:"created_at"`
	Reporter          Account    `gorm:"foreignKey:ReporterAccountID" json:"-"`
	Reported          Account    `gorm:"foreignKey:ReportedAccountID" json:"-"`
	AppliedSanction   *Sanction  `gorm:"foreignKey:AppliedSanctionID" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}
