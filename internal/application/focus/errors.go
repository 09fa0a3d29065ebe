package focus

import (
	"fmt"

	"github.com/rezkam/focusboard/internal/domain"
)

// ConflictError is returned by StartFocus when another task owns the running
// timer and no resolution was chosen. It matches domain.ErrTimerConflict.
type ConflictError struct {
	Current   domain.Task
	Requested domain.Task
	Session   domain.PomodoroSession
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("task %d (%s) already has a running timer, cannot start task %d",
		e.Current.ID, e.Current.Title, e.Requested.ID)
}

// Is lets errors.Is match domain.ErrTimerConflict.
func (e *ConflictError) Is(target error) bool {
	return target == domain.ErrTimerConflict
}
