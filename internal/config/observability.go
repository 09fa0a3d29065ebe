package config

import (
	"fmt"
	"log/slog"
)

// ObservabilityConfig holds observability configuration.
// Exporter endpoints follow the standard OTEL_EXPORTER_OTLP_* variables.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"FOCUSBOARD_OTEL_ENABLED" default:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" default:"focusboard"`
	LogLevel    string `env:"FOCUSBOARD_LOG_LEVEL" default:"warn"`
}

// Validate validates the observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c *ObservabilityConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("FOCUSBOARD_LOG_LEVEL: invalid level %q", c.LogLevel)
	}
	return level, nil
}
