package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shelfnote/shelfnote/internal/settings"
	"go.uber.org/zap"
)

func TestOpenCreatesSchemaAndSeedsDefaults(testContext *testing.T) {
	databasePath := filepath.Join(testContext.TempDir(), "shelfnote.db")

	db, err := Open(databasePath, zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open database: %v", err)
	}

	var stored []settings.Setting
	if err := db.Find(&stored).Error; err != nil {
		testContext.Fatalf("failed to load settings: %v", err)
	}
	if len(stored) != len(defaultSettings) {
		testContext.Fatalf("expected %d seeded settings, got %d", len(defaultSettings), len(stored))
	}

	var theme settings.Setting
	if err := db.Take(&theme, "key = ?", "theme").Error; err != nil {
		testContext.Fatalf("failed to load theme setting: %v", err)
	}
	if theme.Value != "light" {
		testContext.Fatalf("expected default theme %q, got %q", "light", theme.Value)
	}
}

func TestInitializeIsIdempotent(testContext *testing.T) {
	databasePath := filepath.Join(testContext.TempDir(), "shelfnote.db")

	db, err := Open(databasePath, zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open database: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := Initialize(db, zap.NewNop()); err != nil {
			testContext.Fatalf("initialize run %d failed: %v", i+1, err)
		}
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM settings").Scan(&count).Error; err != nil {
		testContext.Fatalf("failed to count settings: %v", err)
	}
	if count != int64(len(defaultSettings)) {
		testContext.Fatalf("expected %d settings after repeated initialization, got %d", len(defaultSettings), count)
	}
}

func TestInitializePreservesUserEditedSetting(testContext *testing.T) {
	databasePath := filepath.Join(testContext.TempDir(), "shelfnote.db")

	db, err := Open(databasePath, zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open database: %v", err)
	}

	repository, err := settings.NewRepository(settings.RepositoryConfig{Database: db})
	if err != nil {
		testContext.Fatalf("failed to build settings repository: %v", err)
	}
	if err := repository.Set(context.Background(), "theme", "dark"); err != nil {
		testContext.Fatalf("failed to edit theme: %v", err)
	}

	if err := Initialize(db, zap.NewNop()); err != nil {
		testContext.Fatalf("re-initialization failed: %v", err)
	}

	stored, err := repository.Get(context.Background(), "theme")
	if err != nil {
		testContext.Fatalf("failed to reload theme: %v", err)
	}
	if stored == nil || stored.Value != "dark" {
		testContext.Fatalf("expected user-edited theme to survive, got %#v", stored)
	}
}

func TestForeignKeyEnforcementIsEnabled(testContext *testing.T) {
	databasePath := filepath.Join(testContext.TempDir(), "shelfnote.db")

	db, err := Open(databasePath, zap.NewNop())
	if err != nil {
		testContext.Fatalf("failed to open database: %v", err)
	}

	var enabled int64
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		testContext.Fatalf("failed to read pragma: %v", err)
	}
	if enabled != 1 {
		testContext.Fatalf("expected foreign_keys pragma to be on, got %d", enabled)
	}
}

func TestOpenRequiresPath(testContext *testing.T) {
	if _, err := Open("", zap.NewNop()); err == nil {
		testContext.Fatalf("expected error for empty database path")
	}
}
