package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
)

var defaultReasons = []models.ReportReason{
	{Code: "harassment", DisplayKey: "reason.harassment"},
	{Code: "cheating", DisplayKey: "reason.cheating"},
	{Code: "offensive_name", DisplayKey: "reason.offensive_name"},
	{Code: "spam", DisplayKey: "reason.spam"},
	{Code: "other", DisplayKey: "reason.other"},
}

// PolicyStore caches the singleton moderation policy, the escalation table
// and the closed reason-code set. Reload swaps the cache atomically so the
// policy is hot-reloadable without restarting the server.
type PolicyStore struct {
	db        *gorm.DB
	mu        sync.RWMutex
	policy    models.ModerationPolicy
	durations map[int]time.Duration
	reasons   map[string]string
}

func NewPolicyStore(db *gorm.DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// Seed inserts default policy rows when the tables are empty. The defaults
// mirror the launch configuration: 5 reports in 15 minutes, 1 minute
// duplicate cooldown, three temporary steps (10m, 60m, 24h), ban on the 4th.
func (p *PolicyStore) Seed() error {
	var count int64
	if err := p.db.Model(&models.ModerationPolicy{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		policy := models.ModerationPolicy{
			ID:                       1,
			ReportsRequired:          5,
			ReportsWindowMinutes:     15,
			DuplicateCooldownMinutes: 1,
			MaxTemporarySanctions:    3,
			BanOnSanctionNumber:      4,
			CommentMaxLength:         500,
		}
		if err := p.db.Create(&policy).Error; err != nil {
			return err
		}
		entries := []models.EscalationEntry{
			{SanctionNumber: 1, DurationMinutes: 10},
			{SanctionNumber: 2, DurationMinutes: 60},
			{SanctionNumber: 3, DurationMinutes: 1440},
		}
		if err := p.db.Create(&entries).Error; err != nil {
			return err
		}
	}

	for _, r := range defaultReasons {
		reason := r
		if err := p.db.Where(models.ReportReason{Code: reason.Code}).FirstOrCreate(&reason).Error; err != nil {
			return err
		}
	}
	return nil
}

// Load reads the policy, escalation table and reason set from the database
// and validates the policy invariants. Violations are configuration faults.
func (p *PolicyStore) Load() error {
	var policy models.ModerationPolicy
	if err := p.db.First(&policy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return faults.New(faults.CodeConfiguration, "policy.missing")
		}
		return fmt.Errorf("failed to load moderation policy: %w", err)
	}
	if err := validatePolicy(policy); err != nil {
		return err
	}

	var entries []models.EscalationEntry
	if err := p.db.Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to load escalation entries: %w", err)
	}
	durations := make(map[int]time.Duration, len(entries))
	for _, e := range entries {
		durations[e.SanctionNumber] = time.Duration(e.DurationMinutes) * time.Minute
	}

	var reasonRows []models.ReportReason
	if err := p.db.Find(&reasonRows).Error; err != nil {
		return fmt.Errorf("failed to load report reasons: %w", err)
	}
	reasons := make(map[string]string, len(reasonRows))
	for _, r := range reasonRows {
		reasons[r.Code] = r.DisplayKey
	}

	p.mu.Lock()
	p.policy = policy
	p.durations = durations
	p.reasons = reasons
	p.mu.Unlock()
	return nil
}

// Reload is Load under its hot-reload name.
func (p *PolicyStore) Reload() error {
	return p.Load()
}

// Validate checks the policy invariants without touching the cache.
func (p *PolicyStore) Validate(policy models.ModerationPolicy) error {
	return validatePolicy(policy)
}

func validatePolicy(policy models.ModerationPolicy) error {
	if policy.ReportsRequired < 1 {
		return faults.New(faults.CodeConfiguration, "policy.reports_required_invalid")
	}
	if policy.MaxTemporarySanctions < 1 {
		return faults.New(faults.CodeConfiguration, "policy.max_temporary_invalid")
	}
	if policy.BanOnSanctionNumber <= policy.MaxTemporarySanctions {
		return faults.New(faults.CodeConfiguration, "policy.ban_ordinal_invalid")
	}
	if policy.ReportsWindowMinutes < 1 || policy.DuplicateCooldownMinutes < 0 {
		return faults.New(faults.CodeConfiguration, "policy.window_invalid")
	}
	if policy.CommentMaxLength < 1 {
		return faults.New(faults.CodeConfiguration, "policy.comment_max_invalid")
	}
	return nil
}

func (p *PolicyStore) Policy() models.ModerationPolicy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.policy
}

// Durations returns the escalation table keyed by sanction ordinal.
func (p *PolicyStore) Durations() map[int]time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[int]time.Duration, len(p.durations))
	for k, v := range p.durations {
		out[k] = v
	}
	return out
}

func (p *PolicyStore) IsValidReason(code string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.reasons[code]
	return ok
}

func (p *PolicyStore) Reasons() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.reasons))
	for k, v := range p.reasons {
		out[k] = v
	}
	return out
}
