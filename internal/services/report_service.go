package services

import (
	"log/slog"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
)

// Authenticator resolves a session token to the acting account id.
type Authenticator interface {
	Authenticate(token string) (int64, error)
}

// ReportStore is the transactional persistence boundary for submissions.
type ReportStore interface {
	Submit(reporterID int64, req *dto.SubmitReportRequest) (*SubmitResult, error)
}

// SanctionHandler is the post-sanction notification hook. It runs after
// every successful repository call, sanction or not, and is
// fire-and-observe: failures are the handler's problem, never the
// submission's.
type SanctionHandler interface {
	HandleReport(req *dto.SubmitReportRequest, resp *dto.SubmitReportResponse)
}

// ReportService coordinates a report submission: validate request →
// authenticate → validate participants → repository submit → sanction hook.
// Faults from the pre-repository steps short-circuit verbatim; repository
// failures are reclassified through the failure-class mapping.
type ReportService struct {
	auth     Authenticator
	store    ReportStore
	policies *PolicyStore
	hook     SanctionHandler
}

func NewReportService(auth Authenticator, store ReportStore, policies *PolicyStore, hook SanctionHandler) *ReportService {
	return &ReportService{auth: auth, store: store, policies: policies, hook: hook}
}

func (s *ReportService) SubmitReport(req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error) {
	policy := s.policies.Policy()
	if err := ValidateReportRequest(req, s.policies.IsValidReason, policy.CommentMaxLength); err != nil {
		return nil, err
	}

	reporterID, err := s.auth.Authenticate(req.SessionToken)
	if err != nil {
		return nil, err
	}

	if err := ValidateParticipants(reporterID, req.ReportedAccountID); err != nil {
		return nil, err
	}

	result, err := s.store.Submit(reporterID, req)
	if err != nil {
		fault := faults.Reclassify(err)
		if fault.Code == faults.CodeUnexpected || fault.Code == faults.CodeConfiguration {
			slog.Error("report submission failed",
				"action", "submit_report",
				"account_id", reporterID,
				"target_id", req.ReportedAccountID,
				"error", err)
		}
		return nil, fault
	}

	resp := &dto.SubmitReportResponse{
		ReportID:        result.ReportID,
		SanctionApplied: result.SanctionApplied,
		SanctionKind:    result.SanctionKind,
		SanctionEndUtc:  result.SanctionEnd,
	}

	if s.hook != nil {
		s.hook.HandleReport(req, resp)
	}
	return resp, nil
}
