package dto

import "time"

// SubmitReportRequest is the single operation exposed to game clients. The
// session token identifies the reporter; the reporter id never travels in
// the request body.
type SubmitReportRequest struct {
	SessionToken      string `json:"session_token"`
	ReportedAccountID int64  `json:"reported_account_id"`
	LobbyID           *int64 `json:"lobby_id,omitempty"`
	ReasonCode        string `json:"reason_code"`
	Comment           string `json:"comment,omitempty"`
}

type SubmitReportResponse struct {
	ReportID        int64      `json:"report_id"`
	SanctionApplied bool       `json:"sanction_applied"`
	SanctionKind    string     `json:"sanction_kind,omitempty"`
	SanctionEndUtc  *time.Time `json:"sanction_end_utc,omitempty"`
}

type BlockRequest struct {
	BlockedAccountID int64 `json:"blocked_account_id"`
}

type UpdatePolicyRequest struct {
	ReportsRequired          int `json:"reports_required"`
	ReportsWindowMinutes     int `json:"reports_window_minutes"`
	DuplicateCooldownMinutes int `json:"duplicate_cooldown_minutes"`
	MaxTemporarySanctions    int `json:"max_temporary_sanctions"`
	BanOnSanctionNumber      int `json:"ban_on_sanction_number"`
	CommentMaxLength         int `json:"comment_max_length"`
}
