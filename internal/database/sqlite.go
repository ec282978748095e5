package database

import (
	"fmt"
	"os"
	"path/filepath"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open establishes the SQLite connection, enables foreign-key enforcement and
// runs first-time schema initialization. The file and its directory are
// created when absent.
func Open(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps the data layer strictly sequential and pins
	// the foreign_keys pragma to the connection actually in use.
	sqlDB.SetMaxOpenConns(1)

	// SQLite ships with declared foreign keys disabled. Without this pragma
	// cascade delete silently does nothing.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Initialize(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database opened", zap.String("path", path))
	}

	return db, nil
}
