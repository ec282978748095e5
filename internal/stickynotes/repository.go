package stickynotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("stickynotes: database handle is required")
	noOpLogger         = zap.NewNop()
)

// RepositoryConfig wires the shared store handle and collaborators into the
// sticky-note repository.
type RepositoryConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Repository performs sticky-note CRUD against the shared store.
type Repository struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewRepository validates the configuration and returns a sticky-note repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Repository{db: cfg.Database, clock: clock, logger: logger}, nil
}

// ListAll returns every sticky note ordered by modified timestamp descending.
func (r *Repository) ListAll(ctx context.Context) ([]StickyNote, error) {
	var all []StickyNote
	if err := r.db.WithContext(ctx).Order("modified_at DESC").Find(&all).Error; err != nil {
		r.logger.Error("sticky note list failed", zap.Error(err))
		return nil, fmt.Errorf("list sticky notes: %w", err)
	}
	return all, nil
}

// GetByID returns the sticky note, or nil when no row matches.
func (r *Repository) GetByID(ctx context.Context, id int64) (*StickyNote, error) {
	var note StickyNote
	err := r.db.WithContext(ctx).Take(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sticky note %d: %w", id, err)
	}
	return &note, nil
}

// Create inserts a sticky note and returns the freshly persisted row. The
// title default is applied here, not left to the store, so the returned value
// is self-consistent regardless of storage-layer defaulting.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*StickyNote, error) {
	title := DefaultTitle
	if input.Title != nil {
		title = *input.Title
	}

	now := r.clock().UTC()
	note := StickyNote{
		Title:      title,
		Content:    input.Content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&note).Error; err != nil {
		r.logger.Error("sticky note insert failed", zap.Error(err))
		return nil, fmt.Errorf("create sticky note: %w", err)
	}
	return r.reload(ctx, note.ID)
}

// Update applies a partial update and returns the updated row, or nil when
// the id does not exist. Omitted fields keep their current values; the
// modified timestamp is bumped on every call.
func (r *Repository) Update(ctx context.Context, id int64, update StickyNoteUpdate) (*StickyNote, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	assignments := map[string]any{"modified_at": r.clock().UTC()}
	if title, ok := update.Title.Get(); ok {
		assignments["title"] = title
	}
	if content, ok := update.Content.Get(); ok {
		assignments["content"] = content
	}

	if err := r.db.WithContext(ctx).Model(&StickyNote{}).Where("id = ?", id).Updates(assignments).Error; err != nil {
		r.logger.Error("sticky note update failed", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("update sticky note %d: %w", id, err)
	}
	return r.reload(ctx, id)
}

// Delete removes the sticky note and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&StickyNote{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("sticky note delete failed", zap.Int64("id", id), zap.Error(result.Error))
		return false, fmt.Errorf("delete sticky note %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) reload(ctx context.Context, id int64) (*StickyNote, error) {
	var stored StickyNote
	if err := r.db.WithContext(ctx).Take(&stored, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload sticky note %d: %w", id, err)
	}
	return &stored, nil
}
