package services

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/quizarena/backend/internal/metrics"
	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
)

const (
	minReconcileInterval = 10 * time.Second
	maxReconcileInterval = time.Hour
)

// SanctionReconciler periodically expires lapsed sanctions. Lifecycle is
// Created → Started → Disposed and Disposed is terminal. Overlapping ticks
// are skipped: at most one pass runs at a time.
type SanctionReconciler struct {
	pass     func() error
	interval time.Duration

	mu       sync.Mutex
	started  bool
	disposed bool
	ticker   *time.Ticker
	done     chan struct{}
	running  atomic.Bool
}

func NewSanctionReconciler(db *gorm.DB, interval time.Duration) *SanctionReconciler {
	return newReconciler(interval, func() error {
		expired, err := ExpireLapsedSanctions(db, time.Now().UTC())
		if err != nil {
			return err
		}
		if expired > 0 {
			slog.Info("sanctions expired", "action", "reconcile", "count", expired)
		}
		metrics.RecordReconcilerPass(expired)
		return nil
	})
}

func newReconciler(interval time.Duration, pass func() error) *SanctionReconciler {
	if interval < minReconcileInterval {
		interval = minReconcileInterval
	}
	if interval > maxReconcileInterval {
		interval = maxReconcileInterval
	}
	return &SanctionReconciler{pass: pass, interval: interval}
}

// Start launches the tick loop. Returns false if the reconciler is already
// started or has been disposed.
func (r *SanctionReconciler) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.disposed {
		return false
	}
	r.started = true
	r.ticker = time.NewTicker(r.interval)
	r.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.runOnce()
			case <-r.done:
				return
			}
		}
	}()
	return true
}

// runOnce executes one pass unless one is still in flight, in which case
// the tick is skipped entirely.
func (r *SanctionReconciler) runOnce() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	defer r.running.Store(false)

	if err := r.pass(); err != nil {
		// A failed pass never kills the loop; the next tick retries.
		slog.Error("reconciliation pass failed", "action", "reconcile", "error", err)
	}
}

// Dispose stops the timer and marks the reconciler terminal. Idempotent. An
// in-flight pass is left to finish; no new tick will fire after return.
func (r *SanctionReconciler) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	r.disposed = true
	if r.started {
		r.ticker.Stop()
		close(r.done)
	}
}

// ExpireLapsedSanctions is one reconciliation pass: it lifts temporary
// sanctions whose end time has elapsed and clears the mirrored
// sanctioned_until marker on the affected accounts. Idempotent.
func ExpireLapsedSanctions(db *gorm.DB, now time.Time) (int64, error) {
	var expired int64
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Sanction{}).
			Where("kind = ? AND lifted_at IS NULL AND end_at IS NOT NULL AND end_at <= ?",
				models.SanctionKindTemporary, now).
			Update("lifted_at", now)
		if result.Error != nil {
			return result.Error
		}
		expired = result.RowsAffected

		return tx.Model(&models.Account{}).
			Where("sanctioned_until IS NOT NULL AND sanctioned_until <= ?", now).
			Update("sanctioned_until", nil).Error
	})
	return expired, err
}
