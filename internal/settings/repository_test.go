package settings_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shelfnote/shelfnote/internal/database"
	"github.com/shelfnote/shelfnote/internal/settings"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) (*settings.Repository, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "shelfnote.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	repository, err := settings.NewRepository(settings.RepositoryConfig{Database: db})
	if err != nil {
		t.Fatalf("failed to build settings repository: %v", err)
	}
	return repository, db
}

func TestGetReturnsNilForUnknownKey(t *testing.T) {
	repository, _ := newTestRepository(t)

	setting, err := repository.Get(context.Background(), "never-written")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting != nil {
		t.Fatalf("expected nil for unknown key, got %#v", setting)
	}
}

func TestSetUpsertsWithoutDuplicates(t *testing.T) {
	repository, db := newTestRepository(t)
	ctx := context.Background()

	if err := repository.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repository.Set(ctx, "theme", "sepia"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repository.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || stored.Value != "sepia" {
		t.Fatalf("expected last write to win, got %#v", stored)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM settings WHERE key = ?", "theme").Scan(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one row for the key, got %d", count)
	}
}

func TestEmptyStringIsARealValue(t *testing.T) {
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repository.Set(ctx, "lastOpenedFolder", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := repository.Get(ctx, "lastOpenedFolder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected an empty-string value to be distinct from absence")
	}
	if stored.Value != "" {
		t.Fatalf("expected empty value, got %q", stored.Value)
	}
}

func TestGetAllIncludesDefaultsAndEdits(t *testing.T) {
	repository, _ := newTestRepository(t)
	ctx := context.Background()

	if err := repository.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, err := repository.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["theme"] != "dark" {
		t.Fatalf("expected edited theme, got %q", values["theme"])
	}
	if values["fontSize"] != "medium" {
		t.Fatalf("expected untouched default fontSize, got %q", values["fontSize"])
	}
	if values["confirmBeforeDelete"] != "true" {
		t.Fatalf("expected untouched default confirmBeforeDelete, got %q", values["confirmBeforeDelete"])
	}
}
