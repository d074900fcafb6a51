package services

import (
	"testing"
	"time"

	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
)

func TestPolicyStoreSeedAndLoad(t *testing.T) {
	db := openTestDB(t)
	store := loadedPolicyStore(t, db)

	policy := store.Policy()
	if policy.ReportsRequired != 5 || policy.ReportsWindowMinutes != 15 {
		t.Errorf("unexpected default policy: %+v", policy)
	}
	if policy.BanOnSanctionNumber != 4 || policy.MaxTemporarySanctions != 3 {
		t.Errorf("unexpected escalation bounds: %+v", policy)
	}

	durations := store.Durations()
	want := map[int]time.Duration{
		1: 10 * time.Minute,
		2: time.Hour,
		3: 24 * time.Hour,
	}
	for ordinal, d := range want {
		if durations[ordinal] != d {
			t.Errorf("duration[%d] = %v, want %v", ordinal, durations[ordinal], d)
		}
	}

	if !store.IsValidReason("harassment") {
		t.Error("harassment should be a recognized reason")
	}
	if store.IsValidReason("bad_vibes") {
		t.Error("bad_vibes should not be a recognized reason")
	}
}

func TestPolicyStoreSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	store := loadedPolicyStore(t, db)
	if err := store.Seed(); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var count int64
	db.Model(&models.ModerationPolicy{}).Count(&count)
	if count != 1 {
		t.Errorf("policy rows = %d, want 1", count)
	}
}

func TestPolicyStoreRejectsInvalidPolicy(t *testing.T) {
	db := openTestDB(t)
	store := loadedPolicyStore(t, db)

	// Ban ordinal must exceed the temporary step count.
	if err := db.Model(&models.ModerationPolicy{}).Where("id = ?", 1).
		Update("ban_on_sanction_number", 2).Error; err != nil {
		t.Fatalf("failed to corrupt policy: %v", err)
	}

	err := store.Reload()
	if err == nil {
		t.Fatal("expected reload to reject the invalid policy")
	}
	fault, ok := faults.IsFault(err)
	if !ok || fault.Code != faults.CodeConfiguration {
		t.Errorf("got %v, want a %s fault", err, faults.CodeConfiguration)
	}

	// The cache keeps the last good policy.
	if store.Policy().BanOnSanctionNumber != 4 {
		t.Errorf("cache changed after failed reload: %+v", store.Policy())
	}
}

func TestPolicyStoreHotReload(t *testing.T) {
	db := openTestDB(t)
	store := loadedPolicyStore(t, db)

	if err := db.Model(&models.ModerationPolicy{}).Where("id = ?", 1).
		Update("reports_required", 3).Error; err != nil {
		t.Fatalf("failed to update policy: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if store.Policy().ReportsRequired != 3 {
		t.Errorf("ReportsRequired = %d after reload, want 3", store.Policy().ReportsRequired)
	}
}

func TestPolicyStoreMissingRowIsConfigurationFault(t *testing.T) {
	db := openTestDB(t)
	store := NewPolicyStore(db)

	err := store.Load()
	if err == nil {
		t.Fatal("expected load to fail with no policy row")
	}
	fault, ok := faults.IsFault(err)
	if !ok || fault.Code != faults.CodeConfiguration {
		t.Errorf("got %v, want a %s fault", err, faults.CodeConfiguration)
	}
}
