package config

import (
	"fmt"
	"time"

	"github.com/rezkam/focusboard/internal/domain"
)

// TimerConfig holds pomodoro settings.
type TimerConfig struct {
	DefaultMinutes int           `env:"FOCUSBOARD_TIMER_DEFAULT_MINUTES" default:"25"`
	TickInterval   time.Duration `env:"FOCUSBOARD_TIMER_TICK" default:"1s"`
}

// Validate validates the timer configuration.
func (c *TimerConfig) Validate() error {
	if err := domain.ValidateTimerMinutes(c.DefaultMinutes); err != nil {
		return fmt.Errorf("FOCUSBOARD_TIMER_DEFAULT_MINUTES: %w", err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("FOCUSBOARD_TIMER_TICK must be positive, got %s", c.TickInterval)
	}
	return nil
}
