package database

import (
	"fmt"

	"github.com/shelfnote/shelfnote/internal/settings"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// schemaStatements is the full creation script. Every statement is guarded so
// re-running the script against an already initialized store is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_id INTEGER REFERENCES folders(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		folder_id INTEGER NOT NULL REFERENCES folders(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sticky_notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT 'Quick Note',
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		modified_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_folder ON notes(folder_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(modified_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title)`,
}

var defaultSettings = []settings.Setting{
	{Key: "appName", Value: "Shelfnote"},
	{Key: "confirmBeforeDelete", Value: "true"},
	{Key: "fontSize", Value: "medium"},
	{Key: "animationsEnabled", Value: "true"},
	{Key: "theme", Value: "light"},
}

// Initialize applies the schema exactly once per store file. The folders
// table doubles as the first-run signal; when it already exists the call is a
// no-op, so it is safe on every process start. Default settings are seeded
// with insert-if-absent semantics and never overwrite a user-edited value.
func Initialize(db *gorm.DB, logger *zap.Logger) error {
	present, err := schemaPresent(db)
	if err != nil {
		// A failing probe is treated as "not yet initialized"; the guarded
		// statements make the rerun safe.
		if logger != nil {
			logger.Warn("schema probe failed, re-running creation", zap.Error(err))
		}
		present = false
	}
	if present {
		return nil
	}

	for _, statement := range schemaStatements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := seedDefaultSettings(db); err != nil {
		return fmt.Errorf("seed default settings: %w", err)
	}

	if logger != nil {
		logger.Info("schema created", zap.Int("statements", len(schemaStatements)))
	}
	return nil
}

func schemaPresent(db *gorm.DB) (bool, error) {
	var name string
	err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'folders'").Scan(&name).Error
	if err != nil {
		return false, err
	}
	return name == "folders", nil
}

func seedDefaultSettings(db *gorm.DB) error {
	for _, seed := range defaultSettings {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings.Setting{
			Key:   seed.Key,
			Value: seed.Value,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
