package settings

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingDatabase = errors.New("settings: database handle is required")
	noOpLogger         = zap.NewNop()
)

// RepositoryConfig wires the shared store handle and logger into the settings
// repository. Settings carry no timestamps, so no clock is needed.
type RepositoryConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Repository reads and writes the flat key-value settings store.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository validates the configuration and returns a settings repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Repository{db: cfg.Database, logger: logger}, nil
}

// Get returns the setting, or nil when the key has never been written. An
// empty string is a real stored value, distinct from absence.
func (r *Repository) Get(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	err := r.db.WithContext(ctx).Take(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &setting, nil
}

// Set upserts the value for the key. Creating and overwriting are
// indistinguishable to the caller; both leave exactly one row for the key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	setting := Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
	if err != nil {
		r.logger.Error("setting upsert failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// GetAll returns every stored key-value pair, intended for one-shot bulk load
// at process start.
func (r *Repository) GetAll(ctx context.Context) (map[string]string, error) {
	var all []Setting
	if err := r.db.WithContext(ctx).Find(&all).Error; err != nil {
		r.logger.Error("settings scan failed", zap.Error(err))
		return nil, fmt.Errorf("list settings: %w", err)
	}

	values := make(map[string]string, len(all))
	for _, setting := range all {
		values[setting.Key] = setting.Value
	}
	return values, nil
}
