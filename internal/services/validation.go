package services

import (
	"strings"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
)

// ValidateReportRequest checks the shape and bounds of an incoming report.
// Pure: no I/O, no side effects. Comment comparison is on raw length;
// empty/whitespace comments are always accepted.
func ValidateReportRequest(req *dto.SubmitReportRequest, isValidReason func(string) bool, commentMaxLength int) error {
	if req == nil {
		return faults.ErrRequestNull
	}
	if !isValidReason(req.ReasonCode) {
		return faults.ErrInvalidReason
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil
	}
	if len(req.Comment) > commentMaxLength {
		return faults.ErrCommentTooLong
	}
	return nil
}

// ValidateParticipants checks the reporter/target pair. The reporter id is
// accepted as already authenticated and is not itself bounds-checked.
func ValidateParticipants(reporterID, targetID int64) error {
	if targetID <= 0 {
		return faults.ErrInvalidTarget
	}
	if reporterID == targetID {
		return faults.ErrSelfReport
	}
	return nil
}
