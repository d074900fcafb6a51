package services

import (
	"time"

	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
)

// SanctionDecision is the resolved escalation outcome for one ordinal.
type SanctionDecision struct {
	Kind     string
	Duration time.Duration
}

// Permanent reports whether the decision is a ban with no end time.
func (d SanctionDecision) Permanent() bool {
	return d.Kind == models.SanctionKindBan
}

// ResolveEscalation maps an account's prior sanction count to the next
// sanction. Ordinal = priorSanctions + 1. At or beyond the ban ordinal the
// result is a permanent ban; below it the duration comes from the
// escalation table. A missing table entry is a configuration fault: the
// policy must cover every temporary ordinal, never silently default.
func ResolveEscalation(priorSanctions int, policy models.ModerationPolicy, durations map[int]time.Duration) (SanctionDecision, error) {
	ordinal := priorSanctions + 1
	if ordinal >= policy.BanOnSanctionNumber {
		return SanctionDecision{Kind: models.SanctionKindBan}, nil
	}
	d, ok := durations[ordinal]
	if !ok {
		return SanctionDecision{}, faults.New(faults.CodeConfiguration, "policy.escalation_entry_missing")
	}
	return SanctionDecision{Kind: models.SanctionKindTemporary, Duration: d}, nil
}
