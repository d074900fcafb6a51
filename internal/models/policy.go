package models

import "time"

// ModerationPolicy is the singleton, hot-reloadable sanction policy row.
// Invariants (enforced by the policy store on load):
// BanOnSanctionNumber > MaxTemporarySanctions >= 1, ReportsRequired >= 1.
type ModerationPolicy struct {
	ID                       int64     `gorm:"primaryKey" json:"id"`
	ReportsRequired          int       `gorm:"not null" json:"reports_required"`
	ReportsWindowMinutes     int       `gorm:"not null" json:"reports_window_minutes"`
	DuplicateCooldownMinutes int       `gorm:"not null" json:"duplicate_cooldown_minutes"`
	MaxTemporarySanctions    int       `gorm:"not null" json:"max_temporary_sanctions"`
	BanOnSanctionNumber      int       `gorm:"not null" json:"ban_on_sanction_number"`
	CommentMaxLength         int       `gorm:"not null" json:"comment_max_length"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (ModerationPolicy) TableName() string {
	return "moderation_policy"
}

// EscalationEntry maps a temporary-sanction ordinal to its duration. The
// ban ordinal has no row: a ban is permanent.
type EscalationEntry struct {
	SanctionNumber  int `gorm:"primaryKey" json:"sanction_number"`
	DurationMinutes int `gorm:"not null" json:"duration_minutes"`
}

func (EscalationEntry) TableName() string {
	return "escalation_entries"
}

// ReportReason is a member of the closed reason-code set.
type ReportReason struct {
	Code       string `gorm:"primaryKey;size:50" json:"code"`
	DisplayKey string `gorm:"size:100;not null" json:"display_key"`
}

func (ReportReason) TableName() string {
	return "report_reasons"
}
