package folders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	errMissingDatabase = errors.New("folders: database handle is required")
	noOpLogger         = zap.NewNop()
)

// RepositoryConfig wires the shared store handle and collaborators into the
// folder repository.
type RepositoryConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Repository performs folder CRUD against the shared store. It holds no
// cache; every call round-trips to the store.
type Repository struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewRepository validates the configuration and returns a folder repository.
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

// ListAll returns every folder ordered by name ascending. Callers derive
// root-only or children-of views from the full set.
func (r *Repository) ListAll(ctx context.Context) ([]Folder, error) {
	var all []Folder
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&all).Error; err != nil {
		r.logger.Error("folder list failed", zap.Error(err))
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return all, nil
}

// GetByID returns the folder, or nil when no row matches.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Folder, error) {
	var folder Folder
	err := r.db.WithContext(ctx).Take(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get folder %d: %w", id, err)
	}
	return &folder, nil
}

// Create inserts a folder and returns the freshly persisted row, re-read from
// the store so the generated id and stored values are authoritative.
func (r *Repository) Create(ctx context.Context, name string, parentID *int64) (*Folder, error) {
	now := r.clock().UTC()
	folder := Folder{Name: name, ParentID: parentID, CreatedAt: now, ModifiedAt: now}
	if err := r.db.WithContext(ctx).Create(&folder).Error; err != nil {
		r.logger.Error("folder insert failed", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return r.reload(ctx, folder.ID)
}

// Update applies a partial update and returns the updated row, or nil when
// the id does not exist. An omitted name keeps the current one. ParentID is
// three-state: omitted keeps the parent, explicit null moves the folder to
// the root, explicit id reparents it. The modified timestamp is bumped on
// every call, even when the net values are unchanged.
func (r *Repository) Update(ctx context.Context, id int64, update FolderUpdate) (*Folder, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	assignments := map[string]any{"modified_at": r.clock().UTC()}
	if name, ok := update.Name.Get(); ok {
		assignments["name"] = name
	}
	if parentID, ok := update.ParentID.Get(); ok {
		assignments["parent_id"] = parentID
	}

	if err := r.db.WithContext(ctx).Model(&Folder{}).Where("id = ?", id).Updates(assignments).Error; err != nil {
		r.logger.Error("folder update failed", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("update folder %d: %w", id, err)
	}
	return r.reload(ctx, id)
}

// Delete removes the folder and reports whether a row was removed. Descendant
// folders and their notes are removed by the declared cascade constraints.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&Folder{}, "id = ?", id)
	if result.Error != nil {
		r.logger.Error("folder delete failed", zap.Int64("id", id), zap.Error(result.Error))
		return false, fmt.Errorf("delete folder %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ItemCounts returns, for every folder, the number of directly owned notes
// plus directly owned child folders. Two grouped queries are merged in Go so
// the cost stays flat instead of one query per folder.
func (r *Repository) ItemCounts(ctx context.Context) (map[int64]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).Model(&Folder{}).Pluck("id", &ids).Error; err != nil {
		r.logger.Error("folder id scan failed", zap.Error(err))
		return nil, fmt.Errorf("list folder ids: %w", err)
	}

	counts := make(map[int64]int64, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}

	type groupedCount struct {
		FolderID int64 `gorm:"column:folder_id"`
		Total    int64 `gorm:"column:total"`
	}

	var noteCounts []groupedCount
	err := r.db.WithContext(ctx).
		Raw("SELECT folder_id, COUNT(*) AS total FROM notes GROUP BY folder_id").
		Scan(&noteCounts).Error
	if err != nil {
		return nil, fmt.Errorf("count notes per folder: %w", err)
	}

	var childCounts []groupedCount
	err = r.db.WithContext(ctx).
		Raw("SELECT parent_id AS folder_id, COUNT(*) AS total FROM folders WHERE parent_id IS NOT NULL GROUP BY parent_id").
		Scan(&childCounts).Error
	if err != nil {
		return nil, fmt.Errorf("count child folders: %w", err)
	}

	for _, row := range noteCounts {
		if _, ok := counts[row.FolderID]; ok {
			counts[row.FolderID] += row.Total
		}
	}
	for _, row := range childCounts {
		if _, ok := counts[row.FolderID]; ok {
			counts[row.FolderID] += row.Total
		}
	}
	return counts, nil
}

func (r *Repository) reload(ctx context.Context, id int64) (*Folder, error) {
	var stored Folder
	if err := r.db.WithContext(ctx).Take(&stored, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload folder %d: %w", id, err)
	}
	return &stored, nil
}
