// Package config holds the focusboard configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rezkam/focusboard/internal/env"
)

// DefaultDirName is created under the user's home directory when no data directory is configured.
const DefaultDirName = ".focusboard"

// Config holds the application configuration.
type Config struct {
	Storage       StorageConfig
	Timer         TimerConfig
	Observability ObservabilityConfig
	Backup        BackupConfig
}

// Load parses environment variables into a Config, validates every section
// and resolves the default data paths.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Storage.resolvePaths(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func homeDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}
