package board

import (
	"context"

	"github.com/rezkam/focusboard/internal/domain"
)

// Repository defines the storage operations for the task collection.
// The whole board is persisted as one document.
type Repository interface {
	// LoadTasks returns every stored task. An empty store yields an empty slice.
	// Undecodable data is reported with domain.ErrCorruptRecord.
	LoadTasks(ctx context.Context) ([]domain.Task, error)

	// SaveTasks replaces the stored collection.
	SaveTasks(ctx context.Context, tasks []domain.Task) error
}

// Recorder receives board events for metrics.
type Recorder interface {
	TaskMoved(ctx context.Context, status domain.TaskStatus)
	TasksCascaded(ctx context.Context, count int)
}

type nopRecorder struct{}

func (nopRecorder) TaskMoved(context.Context, domain.TaskStatus) {}
func (nopRecorder) TasksCascaded(context.Context, int)          {}
