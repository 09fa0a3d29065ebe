package config

// BackupConfig selects where snapshots are pushed.
// A GCS bucket takes precedence over a local directory.
type BackupConfig struct {
	GCSBucket string `env:"FOCUSBOARD_BACKUP_GCS_BUCKET"`
	Prefix    string `env:"FOCUSBOARD_BACKUP_PREFIX" default:"focusboard/"`
	Dir       string `env:"FOCUSBOARD_BACKUP_DIR"`
}

// Enabled reports whether any backup target is configured.
func (c BackupConfig) Enabled() bool {
	return c.GCSBucket != "" || c.Dir != ""
}
