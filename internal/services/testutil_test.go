package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/quizarena/backend/internal/database"
	"github.com/quizarena/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Single connection: every :memory: connection is its own database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, username string) *models.Account {
	t.Helper()
	account := models.Account{
		Username: username,
		Password: "not-a-real-hash",
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to create account %q: %v", username, err)
	}
	return &account
}

func createTestAccounts(t *testing.T, db *gorm.DB, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		acc := createTestAccount(t, db, fmt.Sprintf("player%d", i+1))
		ids = append(ids, acc.ID)
	}
	return ids
}

func loadedPolicyStore(t *testing.T, db *gorm.DB) *PolicyStore {
	t.Helper()
	store := NewPolicyStore(db)
	if err := store.Seed(); err != nil {
		t.Fatalf("failed to seed policy: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load policy: %v", err)
	}
	return store
}

// fixedClock pins the repository clock and lets tests advance it.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
