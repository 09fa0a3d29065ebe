package board

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/ptr"
)

// MoveResult describes a status change and the tasks it displaced.
type MoveResult struct {
	// Task is the moved task after the change.
	Task domain.Task
	// Previous is the status the task left.
	Previous domain.TaskStatus
	// Displaced lists other tasks whose status changed to keep the column limits.
	Displaced []domain.Task
}

// Archived reports whether the move sent the task to the archive.
func (r MoveResult) Archived() bool {
	return r.Task.Status == domain.TaskStatusArchived
}

// MoveTask changes a task's status and applies the column rules.
//
// Progress and doing each hold at most one task. Moving into doing while
// another task is doing pushes that task back to progress, and whatever
// was in progress goes to todo. Moving into progress sends the current
// progress task to todo. Moving into done archives the task immediately.
// Orders are left untouched.
func (s *Service) MoveTask(ctx context.Context, id int, status domain.TaskStatus) (MoveResult, error) {
	if !status.IsValid() {
		return MoveResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidTaskStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return MoveResult{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}

	now := s.clock.Now()
	target := landingStatus(status)
	previous := s.tasks[idx].Status

	bumped := s.cascade(id, target, now)
	s.tasks[idx].Status = target
	s.tasks[idx].UpdatedAt = now
	s.recordMove(ctx, target, len(bumped))

	result := MoveResult{
		Task:     s.tasks[idx].Clone(),
		Previous: previous,
	}
	for _, i := range bumped {
		result.Displaced = append(result.Displaced, s.tasks[i].Clone())
	}

	return result, s.persist(ctx, "move_task")
}

// RestoreTask brings an archived task back to the end of the todo column.
func (s *Service) RestoreTask(ctx context.Context, id int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}
	if !s.tasks[idx].IsArchived() {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotArchived, id)
	}

	s.tasks[idx].Order = ptr.To(s.nextOrder(domain.TaskStatusTodo))
	s.tasks[idx].Status = domain.TaskStatusTodo
	s.tasks[idx].UpdatedAt = s.clock.Now()
	s.recordMove(ctx, domain.TaskStatusTodo, 0)

	return s.tasks[idx].Clone(), s.persist(ctx, "restore_task")
}

// ReorderWithinColumn moves a task to position within its own column.
// The position is clamped to the column bounds. Orders in the column are
// renumbered 0..n-1 and no status changes.
// It returns the column in its new order.
func (s *Service) ReorderWithinColumn(ctx context.Context, id int, position int) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}

	column := s.columnIndices(s.tasks[idx].Status)
	column = slices.DeleteFunc(column, func(i int) bool { return i == idx })
	position = min(max(position, 0), len(column))
	column = slices.Insert(column, position, idx)

	now := s.clock.Now()
	out := make([]domain.Task, 0, len(column))
	for rank, i := range column {
		if s.tasks[i].Order == nil || *s.tasks[i].Order != rank {
			s.tasks[i].Order = ptr.To(rank)
			s.tasks[i].UpdatedAt = now
		}
		out = append(out, s.tasks[i].Clone())
	}

	return out, s.persist(ctx, "reorder_task")
}

// cascade applies the single-occupancy rules for a task entering target and
// returns the indices of the other tasks it changed. Callers hold s.mu.
func (s *Service) cascade(moverID int, target domain.TaskStatus, now time.Time) []int {
	var bumped []int
	demote := func(i int, to domain.TaskStatus) {
		s.tasks[i].Status = to
		s.tasks[i].UpdatedAt = now
		bumped = append(bumped, i)
	}

	switch target {
	case domain.TaskStatusDoing:
		doing := s.othersWithStatus(moverID, domain.TaskStatusDoing)
		if len(doing) == 0 {
			return nil
		}
		for _, i := range s.othersWithStatus(moverID, domain.TaskStatusProgress) {
			demote(i, domain.TaskStatusTodo)
		}
		demote(doing[0], domain.TaskStatusProgress)
		for _, i := range doing[1:] {
			demote(i, domain.TaskStatusTodo)
		}
	case domain.TaskStatusProgress:
		for _, i := range s.othersWithStatus(moverID, domain.TaskStatusProgress) {
			demote(i, domain.TaskStatusTodo)
		}
	}
	return bumped
}

// othersWithStatus returns indices of tasks in status other than excludeID,
// in column order. Callers hold s.mu.
func (s *Service) othersWithStatus(excludeID int, status domain.TaskStatus) []int {
	var out []int
	for _, i := range s.columnIndices(status) {
		if s.tasks[i].ID != excludeID {
			out = append(out, i)
		}
	}
	return out
}

// columnIndices returns indices of the tasks in status sorted for display. Callers hold s.mu.
func (s *Service) columnIndices(status domain.TaskStatus) []int {
	var out []int
	for i, t := range s.tasks {
		if t.Status == status {
			out = append(out, i)
		}
	}
	slices.SortStableFunc(out, func(a, b int) int {
		return domain.CompareTasks(s.tasks[a], s.tasks[b])
	})
	return out
}

func (s *Service) recordMove(ctx context.Context, status domain.TaskStatus, displaced int) {
	s.recorder.TaskMoved(ctx, status)
	if displaced > 0 {
		s.recorder.TasksCascaded(ctx, displaced)
	}
}

// landingStatus maps the requested status to the one stored. Done is archived on arrival.
func landingStatus(status domain.TaskStatus) domain.TaskStatus {
	if status == domain.TaskStatusDone {
		return domain.TaskStatusArchived
	}
	return status
}
