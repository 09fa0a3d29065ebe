package config

import (
	"fmt"
	"path/filepath"
)

// Storage backend names accepted by FOCUSBOARD_STORAGE_TYPE.
const (
	StorageFS     = "fs"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// StorageConfig selects where tasks and the timer session are kept.
type StorageConfig struct {
	Type       string `env:"FOCUSBOARD_STORAGE_TYPE" default:"fs"` // fs, sqlite, memory
	FSDir      string `env:"FOCUSBOARD_FS_DIR"`
	SQLitePath string `env:"FOCUSBOARD_SQLITE_PATH"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case StorageFS, StorageSQLite, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unknown FOCUSBOARD_STORAGE_TYPE: %q (want fs, sqlite or memory)", c.Type)
	}
}

// resolvePaths fills empty paths with locations under ~/.focusboard.
func (c *StorageConfig) resolvePaths() error {
	if c.FSDir == "" {
		dir, err := homeDataDir()
		if err != nil {
			return err
		}
		c.FSDir = dir
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.FSDir, "focusboard.db")
	}
	return nil
}
