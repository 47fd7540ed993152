package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const memoryDSN = "file:storeadmin?mode=memory&cache=shared&_foreign_keys=1"

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn, err := buildSQLiteDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(cfg))
	if err != nil {
		return nil, err
	}

	// Custom DSNs may omit _foreign_keys.
	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		return nil, err
	}
	if enabled != 1 {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// buildSQLiteDSN resolves the file path into a DSN with WAL journaling and a
// busy timeout. An empty path or ":memory:" selects a shared in-memory database.
func buildSQLiteDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		return memoryDSN, nil
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sqlite: create data directory: %w", err)
		}
	}

	params := url.Values{}
	params.Set("_foreign_keys", "1")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	for key, value := range cfg.Options {
		params.Set(key, value)
	}

	return "file:" + filepath.ToSlash(path) + "?" + params.Encode(), nil
}
