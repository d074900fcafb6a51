package services

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateReport marks a second report from the same reporter against
// the same target inside the duplicate cooldown. Duplicate suppression
// lives at the storage layer and surfaces as a database fault, not a
// domain fault.
var ErrDuplicateReport = errors.New("duplicate report within cooldown")

// SubmitResult is the repository-level outcome of a report submission.
type SubmitResult struct {
	ReportID        int64
	SanctionApplied bool
	SanctionKind    string
	SanctionEnd     *time.Time
}

// ReportRepository persists reports and decides sanction escalation. All of
// Submit runs in one transaction: a report is never visible with a
// partially-applied sanction.
type ReportRepository struct {
	db       *gorm.DB
	policies *PolicyStore
	now      func() time.Time
}

func NewReportRepository(db *gorm.DB, policies *PolicyStore) *ReportRepository {
	return &ReportRepository{db: db, policies: policies, now: func() time.Time { return time.Now().UTC() }}
}

// Submit inserts the report, counts reports against the target inside the
// trailing window (inclusive of the just-inserted row; older reports age
// out) and, when the threshold is reached, applies the next escalation step
// atomically. Any failure rolls back the report together with the sanction.
func (r *ReportRepository) Submit(reporterID int64, req *dto.SubmitReportRequest) (*SubmitResult, error) {
	policy := r.policies.Policy()
	durations := r.policies.Durations()
	now := r.now()

	var res SubmitResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// The cooldown check, window count and suppression check below are
		// check-then-act: under read committed, two concurrent submissions
		// against the same target could each pass before either commits.
		// Locking the target row up front serializes them per target.
		var target models.Account
		if err := lockTarget(tx).First(&target, "id = ?", req.ReportedAccountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return faults.ErrInvalidTarget
			}
			return storeFailure(err)
		}

		cooldown := time.Duration(policy.DuplicateCooldownMinutes) * time.Minute
		var dup int64
		if err := tx.Model(&models.Report{}).
			Where("reporter_account_id = ? AND reported_account_id = ? AND created_at > ?",
				reporterID, req.ReportedAccountID, now.Add(-cooldown)).
			Count(&dup).Error; err != nil {
			return storeFailure(err)
		}
		if dup > 0 {
			return &faults.StoreError{Class: faults.FailureDatabase, Err: ErrDuplicateReport}
		}

		report := models.Report{
			ReporterAccountID: reporterID,
			ReportedAccountID: req.ReportedAccountID,
			LobbyID:           req.LobbyID,
			ReasonCode:        req.ReasonCode,
			Comment:           req.Comment,
			CreatedAt:         now,
		}
		if err := tx.Create(&report).Error; err != nil {
			return storeFailure(err)
		}

		window := time.Duration(policy.ReportsWindowMinutes) * time.Minute
		var inWindow int64
		if err := tx.Model(&models.Report{}).
			Where("reported_account_id = ? AND created_at >= ?", req.ReportedAccountID, now.Add(-window)).
			Count(&inWindow).Error; err != nil {
			return storeFailure(err)
		}

		res = SubmitResult{ReportID: report.ID}
		if inWindow < int64(policy.ReportsRequired) {
			return nil
		}

		// A sanction already inside the window consumed this burst: reports
		// past the Nth do not re-trigger until the window resets.
		var recentSanctions int64
		if err := tx.Model(&models.Sanction{}).
			Where("account_id = ? AND created_at >= ?", req.ReportedAccountID, now.Add(-window)).
			Count(&recentSanctions).Error; err != nil {
			return storeFailure(err)
		}
		if recentSanctions > 0 {
			return nil
		}

		// The ordinal bump stays an atomic column update so a lifted
		// sanction never resets the counter.
		if err := tx.Model(&models.Account{}).
			Where("id = ?", req.ReportedAccountID).
			UpdateColumn("sanction_count", gorm.Expr("sanction_count + 1")).Error; err != nil {
			return storeFailure(err)
		}
		if err := tx.First(&target, "id = ?", req.ReportedAccountID).Error; err != nil {
			return storeFailure(err)
		}
		ordinal := target.SanctionCount

		decision, err := ResolveEscalation(ordinal-1, policy, durations)
		if err != nil {
			return err
		}

		sanction := models.Sanction{
			AccountID:      req.ReportedAccountID,
			SanctionNumber: ordinal,
			Kind:           decision.Kind,
			CreatedAt:      now,
		}
		accountUpdates := map[string]interface{}{}
		if decision.Permanent() {
			accountUpdates["banned_at"] = now
		} else {
			end := now.Add(decision.Duration)
			sanction.EndAt = &end
			accountUpdates["sanctioned_until"] = end
		}
		if err := tx.Create(&sanction).Error; err != nil {
			return storeFailure(err)
		}
		if err := tx.Model(&models.Report{}).
			Where("id = ?", report.ID).
			Update("applied_sanction_id", sanction.ID).Error; err != nil {
			return storeFailure(err)
		}
		if err := tx.Model(&models.Account{}).
			Where("id = ?", req.ReportedAccountID).
			Updates(accountUpdates).Error; err != nil {
			return storeFailure(err)
		}

		res.SanctionApplied = true
		res.SanctionKind = decision.Kind
		res.SanctionEnd = sanction.EndAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// lockTarget applies SELECT … FOR UPDATE where the dialect supports it.
// SQLite has no row locks; its single writer serializes transactions on
// its own.
func lockTarget(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// storeFailure classifies an infrastructure error into an abstract failure
// class. The coordinator maps classes to fault codes; gorm/pgx type names
// stay out of it.
func storeFailure(err error) error {
	var se *faults.StoreError
	if errors.As(err, &se) {
		return err
	}
	var f *faults.Fault
	if errors.As(err, &f) {
		return err
	}

	class := faults.FailureDatabase
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		class = faults.FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		class = faults.FailureTimeout
	case errors.As(err, &netErr):
		class = faults.FailureConnectivity
	case errors.Is(err, gorm.ErrInvalidDB) || errors.Is(err, gorm.ErrInvalidTransaction):
		class = faults.FailureConfiguration
	}
	return &faults.StoreError{Class: class, Err: err}
}
