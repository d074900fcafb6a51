package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// SanctionChannel is the Redis pub/sub channel game servers subscribe to
// for applied sanctions (kick the player, close the lobby seat).
const SanctionChannel = "moderation.sanctions"

type sanctionEvent struct {
	ReportID          int64      `json:"report_id"`
	ReportedAccountID int64      `json:"reported_account_id"`
	LobbyID           *int64     `json:"lobby_id,omitempty"`
	SanctionKind      string     `json:"sanction_kind"`
	SanctionEndUtc    *time.Time `json:"sanction_end_utc,omitempty"`
}

// SanctionNotifier is the production post-sanction hook: it logs the
// outcome, bumps metrics and publishes applied sanctions to Redis.
// Everything here is fire-and-observe.
type SanctionNotifier struct {
	rdb *redis.Client
}

func NewSanctionNotifier(rdb *redis.Client) *SanctionNotifier {
	return &SanctionNotifier{rdb: rdb}
}

func (n *SanctionNotifier) HandleReport(req *dto.SubmitReportRequest, resp *dto.SubmitReportResponse) {
	metrics.RecordReport(resp.SanctionApplied, resp.SanctionKind)

	if !resp.SanctionApplied {
		slog.Info("report recorded",
			"action", "report_recorded",
			"report_id", resp.ReportID,
			"target_id", req.ReportedAccountID)
		return
	}

	slog.Info("sanction applied",
		"action", "sanction_applied",
		"report_id", resp.ReportID,
		"target_id", req.ReportedAccountID,
		"kind", resp.SanctionKind)

	if n.rdb == nil {
		return
	}
	event := sanctionEvent{
		ReportID:          resp.ReportID,
		ReportedAccountID: req.ReportedAccountID,
		LobbyID:           req.LobbyID,
		SanctionKind:      resp.SanctionKind,
		SanctionEndUtc:    resp.SanctionEndUtc,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal sanction event", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.rdb.Publish(ctx, SanctionChannel, payload).Err(); err != nil {
		slog.Error("failed to publish sanction event", "error", err, "report_id", resp.ReportID)
	}
}
