package services

import (
	"errors"
	"testing"
	"time"

	"github.com/quizarena/backend/internal/models"
)

func TestBlockUnblockRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ids := createTestAccounts(t, db, 3)
	svc := NewModerationService(db)

	if err := svc.BlockAccount(ids[0], ids[1]); err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if err := svc.BlockAccount(ids[0], ids[2]); err != nil {
		t.Fatalf("second block failed: %v", err)
	}

	blocked, err := svc.GetBlockedIDs(ids[0])
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(blocked) != 2 {
		t.Fatalf("blocked = %v, want 2 entries", blocked)
	}

	if err := svc.UnblockAccount(ids[0], ids[1]); err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	blocked, _ = svc.GetBlockedIDs(ids[0])
	if len(blocked) != 1 || blocked[0] != ids[2] {
		t.Errorf("blocked after unblock = %v, want [%d]", blocked, ids[2])
	}
}

func TestBlockRejectsSelfAndDuplicates(t *testing.T) {
	db := openTestDB(t)
	ids := createTestAccounts(t, db, 2)
	svc := NewModerationService(db)

	if err := svc.BlockAccount(ids[0], ids[0]); !errors.Is(err, ErrSelfBlock) {
		t.Errorf("self block err = %v, want ErrSelfBlock", err)
	}
	if err := svc.BlockAccount(ids[0], ids[1]); err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if err := svc.BlockAccount(ids[0], ids[1]); !errors.Is(err, ErrAlreadyBlocked) {
		t.Errorf("duplicate block err = %v, want ErrAlreadyBlocked", err)
	}
}

func TestLiftSanctionClearsAccountMarkers(t *testing.T) {
	db := openTestDB(t)
	ids := createTestAccounts(t, db, 1)
	svc := NewModerationService(db)
	now := time.Now().UTC()

	sanction := models.Sanction{
		AccountID:      ids[0],
		SanctionNumber: 1,
		Kind:           models.SanctionKindBan,
		CreatedAt:      now,
	}
	if err := db.Create(&sanction).Error; err != nil {
		t.Fatalf("failed to seed sanction: %v", err)
	}
	if err := db.Model(&models.Account{}).Where("id = ?", ids[0]).
		Update("banned_at", now).Error; err != nil {
		t.Fatalf("failed to mark ban: %v", err)
	}

	if err := svc.LiftSanction(sanction.ID); err != nil {
		t.Fatalf("lift failed: %v", err)
	}

	var account models.Account
	db.First(&account, "id = ?", ids[0])
	if account.BannedAt != nil {
		t.Error("banned_at not cleared after lifting the ban")
	}

	var reloaded models.Sanction
	db.First(&reloaded, "id = ?", sanction.ID)
	if reloaded.LiftedAt == nil {
		t.Error("sanction not marked lifted")
	}

	// Lifting twice is a no-op.
	if err := svc.LiftSanction(sanction.ID); err != nil {
		t.Errorf("second lift returned %v", err)
	}
}

func TestLiftSanctionMissing(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db)

	if err := svc.LiftSanction(999); !errors.Is(err, ErrSanctionNotFound) {
		t.Errorf("err = %v, want ErrSanctionNotFound", err)
	}
}

func TestListSanctionsActiveOnly(t *testing.T) {
	db := openTestDB(t)
	ids := createTestAccounts(t, db, 1)
	svc := NewModerationService(db)
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	rows := []models.Sanction{
		{AccountID: ids[0], SanctionNumber: 1, Kind: models.SanctionKindTemporary, EndAt: &past, CreatedAt: now},
		{AccountID: ids[0], SanctionNumber: 2, Kind: models.SanctionKindTemporary, EndAt: &future, CreatedAt: now},
		{AccountID: ids[0], SanctionNumber: 3, Kind: models.SanctionKindBan, CreatedAt: now},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("failed to seed sanction %d: %v", i, err)
		}
	}

	active, total, err := svc.ListSanctions(ids[0], true, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(active) != 2 {
		t.Errorf("active sanctions = %d (total %d), want 2", len(active), total)
	}

	all, total, err := svc.ListSanctions(ids[0], false, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("all sanctions = %d (total %d), want 3", len(all), total)
	}
}
