package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrTaskNotFound indicates no task carries the requested id.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDuplicateID indicates a task with the same id already exists.
	ErrDuplicateID = errors.New("task id already exists")

	// ErrInvalidID indicates the provided id is not a positive integer.
	ErrInvalidID = errors.New("invalid task id")

	// ErrPersistence indicates the in-memory change succeeded but could not be written to storage.
	ErrPersistence = errors.New("persistence failed")

	// ErrCorruptRecord indicates a stored record could not be decoded.
	ErrCorruptRecord = errors.New("corrupt stored record")
)

// Validation errors.
var (
	ErrTitleRequired         = errors.New("title is required")
	ErrTitleTooLong          = errors.New("title must be 255 characters or less")
	ErrInvalidTaskStatus     = errors.New("invalid task status")
	ErrInvalidEffort         = errors.New("invalid effort")
	ErrInvalidComplexity     = errors.New("invalid complexity")
	ErrInvalidDuration       = errors.New("timer duration must be between 1 and 999 minutes")
	ErrChecklistItemRequired = errors.New("checklist item text is required")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrChecklistIncomplete   = errors.New("checklist has pending items")
	ErrEmptyUpdateMask       = errors.New("update mask cannot be empty")
	ErrUnknownField          = errors.New("unknown field in update mask")
	ErrTaskArchived          = errors.New("task is archived")
	ErrTaskNotArchived       = errors.New("task is not archived")
)

// Timer errors.
var (
	// ErrNoActiveSession indicates the operation needs a pomodoro session and none exists.
	ErrNoActiveSession = errors.New("no pomodoro session")

	// ErrTimerConflict indicates a different task already owns the running session.
	ErrTimerConflict = errors.New("another task owns the running timer")
)
