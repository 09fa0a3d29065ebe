package domain

import (
	"fmt"
	"strings"
)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if len(s) > 255 {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// ValidateTaskID checks that id can identify a task.
func ValidateTaskID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

// NewTaskStatus validates and creates a TaskStatus.
// "row" is accepted as an alias for the progress column.
func NewTaskStatus(s string) (TaskStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "row" {
		return TaskStatusProgress, nil
	}

	status := TaskStatus(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskStatus, s)
	}
	return status, nil
}

// NewEffort validates and creates an Effort.
// Empty input yields the default effort.
func NewEffort(s string) (Effort, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultEffort, nil
	}

	effort := Effort(strings.ToUpper(strings.TrimSpace(s)))

	switch effort {
	case EffortXS, EffortS, EffortM, EffortL, EffortXL:
		return effort, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidEffort, s)
	}
}

// NewComplexity validates and creates a Complexity.
// Matching is case-insensitive, empty input yields the default complexity.
func NewComplexity(s string) (Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultComplexity, nil
	case "easy":
		return ComplexityEasy, nil
	case "medium":
		return ComplexityMedium, nil
	case "hard":
		return ComplexityHard, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidComplexity, s)
	}
}

// ValidateTimerMinutes checks a pomodoro length against the allowed range.
func ValidateTimerMinutes(minutes int) error {
	if minutes < MinTimerMinutes || minutes > MaxTimerMinutes {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	return nil
}
