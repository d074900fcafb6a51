package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
)

func isReason(code string) bool {
	switch code {
	case "harassment", "cheating", "spam":
		return true
	}
	return false
}

func TestValidateReportRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *dto.SubmitReportRequest
		want error
	}{
		{"nil request", nil, faults.ErrRequestNull},
		{"unknown reason", &dto.SubmitReportRequest{ReasonCode: "rudeness"}, faults.ErrInvalidReason},
		{"empty reason", &dto.SubmitReportRequest{ReasonCode: ""}, faults.ErrInvalidReason},
		{"comment too long", &dto.SubmitReportRequest{ReasonCode: "spam", Comment: strings.Repeat("a", 501)}, faults.ErrCommentTooLong},
		{"comment at limit", &dto.SubmitReportRequest{ReasonCode: "spam", Comment: strings.Repeat("a", 500)}, nil},
		{"whitespace comment always accepted", &dto.SubmitReportRequest{ReasonCode: "spam", Comment: strings.Repeat(" ", 600)}, nil},
		{"empty comment", &dto.SubmitReportRequest{ReasonCode: "harassment"}, nil},
		{"valid", &dto.SubmitReportRequest{ReasonCode: "harassment", Comment: "threats in lobby chat"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateReportRequest(tt.req, isReason, 500)
			if !errors.Is(got, tt.want) {
				t.Errorf("ValidateReportRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateParticipants(t *testing.T) {
	tests := []struct {
		name       string
		reporterID int64
		targetID   int64
		want       error
	}{
		{"zero target", 7, 0, faults.ErrInvalidTarget},
		{"negative target", 7, -3, faults.ErrInvalidTarget},
		{"self report", 7, 7, faults.ErrSelfReport},
		{"valid pair", 7, 8, nil},
		{"reporter id not bounds-checked", -1, 8, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateParticipants(tt.reporterID, tt.targetID)
			if !errors.Is(got, tt.want) {
				t.Errorf("ValidateParticipants(%d, %d) = %v, want %v", tt.reporterID, tt.targetID, got, tt.want)
			}
		})
	}
}
