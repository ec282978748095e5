package stickynotes_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shelfnote/shelfnote/internal/database"
	"github.com/shelfnote/shelfnote/internal/optional"
	"github.com/shelfnote/shelfnote/internal/stickynotes"
	"go.uber.org/zap"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time {
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestRepository(t *testing.T, clock *manualClock) *stickynotes.Repository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "shelfnote.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	repository, err := stickynotes.NewRepository(stickynotes.RepositoryConfig{Database: db, Clock: clock.Now})
	if err != nil {
		t.Fatalf("failed to build sticky note repository: %v", err)
	}
	return repository
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
}

func stringPtr(value string) *string {
	return &value
}

func TestCreateDefaultsTitleWhenOmitted(t *testing.T) {
	repository := newTestRepository(t, newManualClock())

	created, err := repository.Create(context.Background(), stickynotes.CreateInput{Content: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != stickynotes.DefaultTitle {
		t.Fatalf("expected default title %q, got %q", stickynotes.DefaultTitle, created.Title)
	}
	if created.Content != "Buy milk" {
		t.Fatalf("expected content to be stored, got %q", created.Content)
	}
}

func TestCreateKeepsProvidedTitle(t *testing.T) {
	repository := newTestRepository(t, newManualClock())

	created, err := repository.Create(context.Background(), stickynotes.CreateInput{
		Title:   stringPtr("Errands"),
		Content: "Buy milk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "Errands" {
		t.Fatalf("expected provided title, got %q", created.Title)
	}
}

func TestListAllOrdersByModifiedDescending(t *testing.T) {
	clock := newManualClock()
	repository := newTestRepository(t, clock)
	ctx := context.Background()

	first, err := repository.Create(ctx, stickynotes.CreateInput{Content: "older"})
	if err != nil {
		t.Fatalf("failed to create sticky note: %v", err)
	}
	clock.Advance(time.Minute)
	second, err := repository.Create(ctx, stickynotes.CreateInput{Content: "newer"})
	if err != nil {
		t.Fatalf("failed to create sticky note: %v", err)
	}

	all, err := repository.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sticky notes, got %d", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected most recently modified first")
	}
}

func TestUpdateKeepsOmittedFieldsAndBumpsModified(t *testing.T) {
	clock := newManualClock()
	repository := newTestRepository(t, clock)
	ctx := context.Background()

	created, err := repository.Create(ctx, stickynotes.CreateInput{
		Title:   stringPtr("Errands"),
		Content: "Buy milk",
	})
	if err != nil {
		t.Fatalf("failed to create sticky note: %v", err)
	}

	clock.Advance(time.Hour)
	updated, err := repository.Update(ctx, created.ID, stickynotes.StickyNoteUpdate{
		Content: optional.Of("Buy milk and bread"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Errands" {
		t.Fatalf("expected title to be kept, got %q", updated.Title)
	}
	if updated.Content != "Buy milk and bread" {
		t.Fatalf("expected content to change, got %q", updated.Content)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created timestamp must never change")
	}
	if !updated.ModifiedAt.After(created.ModifiedAt) {
		t.Fatalf("expected modified timestamp to advance")
	}
}

func TestUpdateReturnsNilWhenAbsent(t *testing.T) {
	repository := newTestRepository(t, newManualClock())

	updated, err := repository.Update(context.Background(), 42, stickynotes.StickyNoteUpdate{
		Title: optional.Of("Ghost"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for missing sticky note, got %#v", updated)
	}
}

func TestDeleteReportsWhetherRowWasRemoved(t *testing.T) {
	repository := newTestRepository(t, newManualClock())
	ctx := context.Background()

	created, err := repository.Create(ctx, stickynotes.CreateInput{Content: "Buy milk"})
	if err != nil {
		t.Fatalf("failed to create sticky note: %v", err)
	}

	removed, err := repository.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatalf("expected delete to remove the sticky note")
	}

	removed, err = repository.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed {
		t.Fatalf("expected second delete to report no row removed")
	}
}
