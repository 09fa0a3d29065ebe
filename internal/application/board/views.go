package board

import (
	"context"
	"fmt"
	"slices"

	"github.com/rezkam/focusboard/internal/domain"
)

// ColumnView is one board column in display order.
type ColumnView struct {
	Status domain.TaskStatus
	Tasks  []domain.Task
}

// Tasks returns a copy of every task, archived ones included.
func (s *Service) Tasks(_ context.Context) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Task returns the task with id.
func (s *Service) Task(_ context.Context, id int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}
	return s.tasks[idx].Clone(), nil
}

// Column returns the tasks in status sorted by order, then creation time.
func (s *Service) Column(_ context.Context, status domain.TaskStatus) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.column(status)
}

// Board returns the four visible columns.
func (s *Service) Board(_ context.Context) []ColumnView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ColumnView, 0, len(domain.BoardColumns))
	for _, status := range domain.BoardColumns {
		views = append(views, ColumnView{Status: status, Tasks: s.column(status)})
	}
	return views
}

// Archived returns archived tasks, most recently updated first.
func (s *Service) Archived(_ context.Context) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.IsArchived() {
			out = append(out, t.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Task) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

func (s *Service) column(status domain.TaskStatus) []domain.Task {
	indices := s.columnIndices(status)
	out := make([]domain.Task, 0, len(indices))
	for _, i := range indices {
		out = append(out, s.tasks[i].Clone())
	}
	return out
}
