package timer

import (
	"context"

	"github.com/rezkam/focusboard/internal/domain"
)

// Repository stores the single pomodoro session record.
type Repository interface {
	// LoadSession returns the stored session, or nil when there is none.
	// Undecodable data is reported with domain.ErrCorruptRecord.
	LoadSession(ctx context.Context) (*domain.PomodoroSession, error)

	// SaveSession replaces the stored session.
	SaveSession(ctx context.Context, session domain.PomodoroSession) error

	// DeleteSession removes the stored session. Deleting a missing record is not an error.
	DeleteSession(ctx context.Context) error
}

// Recorder receives timer events for metrics.
type Recorder interface {
	TimerCompleted(ctx context.Context, taskID int)
	TimeReported(ctx context.Context, seconds int)
}

type nopRecorder struct{}

func (nopRecorder) TimerCompleted(context.Context, int) {}
func (nopRecorder) TimeReported(context.Context, int)   {}
