package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("notes: database handle is required")
	noOpLogger         = zap.NewNop()
)

// RepositoryConfig wires the shared store handle and collaborators into the
// note repository.
type RepositoryConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Repository performs note CRUD and search against the shared store.
type Repository struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewRepository validates the configuration and returns a note repository.
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

// ListByFolder returns the folder's notes ordered by modified timestamp
// descending. This is the hottest read in the system and rides the
// idx_notes_folder index.
func (r *Repository) ListByFolder(ctx context.Context, folderID int64) ([]Note, error) {
	var owned []Note
	err := r.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("modified_at DESC").
		Find(&owned).Error
	if err != nil {
		r.logger.Error("note list failed", zap.Int64("folder_id", folderID), zap.Error(err))
		return nil, fmt.Errorf("list notes for folder %d: %w", folderID, err)
	}
	return owned, nil
}

// GetByID returns the note, or nil when no row matches.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Note, error) {
	var note Note
	err := r.db.WithContext(ctx).Take(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note %d: %w", id, err)
	}
	return &note, nil
}

// Create inserts a note and returns the freshly persisted row. A nil content
// stores the empty string, never null. A folder id that references nothing
// fails on the foreign-key constraint.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Note, error) {
	content := ""
	if input.Content != nil {
		content = *input.Content
	}

	now := r.clock().UTC()
	note := Note{
		Title:      input.Title,
		Content:    content,
		FolderID:   input.FolderID,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(&note).Error; err != nil {
		r.logger.Error("note insert failed", zap.Int64("folder_id", input.FolderID), zap.Error(err))
		return nil, fmt.Errorf("create note: %w", err)
	}
	return r.reload(ctx, note.ID)
}

// Update applies a partial update and returns the updated row, or nil when
// the id does not exist. Omitted fields keep their current values; the
// modified timestamp is bumped on every call.
func (r *Repository) Update(ctx context.Context, id int64, update NoteUpdate) (*Note, error) {
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

	if err := r.db.WithContext(ctx).Model(&Note{}).Where("id = ?", id).Updates(assignments).Error; err != nil {
		r.logger.Error("note update failed", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}
	return r.reload(ctx, id)
}

// Delete removes the note and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Note{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("note delete failed", zap.Int64("id", id), zap.Error(result.Error))
		return false, fmt.Errorf("delete note %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Search returns every note whose title or content contains the query as a
// literal substring, case-insensitively for ASCII, ordered by modified
// timestamp descending. The leading wildcard forces a scan; acceptable at
// single-user scale.
func (r *Repository) Search(ctx context.Context, query string) ([]Note, error) {
	pattern := likePattern(query)
	var matches []Note
	err := r.db.WithContext(ctx).
		Where(`title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("modified_at DESC").
		Find(&matches).Error
	if err != nil {
		r.logger.Error("note search failed", zap.Error(err))
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return matches, nil
}

// likePattern wraps the query in wildcards, escaping LIKE metacharacters so
// the match is literal containment rather than accidental pattern matching.
func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(query) + "%"
}

func (r *Repository) reload(ctx context.Context, id int64) (*Note, error) {
	var stored Note
	if err := r.db.WithContext(ctx).Take(&stored, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload note %d: %w", id, err)
	}
	return &stored, nil
}
