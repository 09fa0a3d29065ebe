package board

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rezkam/focusboard/internal/domain"
)

// AddChecklistItem appends a pending item to the task's checklist.
func (s *Service) AddChecklistItem(ctx context.Context, taskID int, text string) (domain.ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChecklistItem{}, domain.ErrChecklistItemRequired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.ChecklistItem{}, fmt.Errorf("failed to generate checklist id: %w", err)
	}
	item := domain.ChecklistItem{ID: id.String(), Text: text}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return domain.ChecklistItem{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, taskID)
	}

	s.tasks[idx].Checklist = append(s.tasks[idx].Checklist, item)
	s.tasks[idx].UpdatedAt = s.clock.Now()

	return item, s.persist(ctx, "add_checklist_item")
}

// ToggleChecklistItem flips the completion flag of one item.
// itemRef is either the item id or its 1-based position in the checklist.
func (s *Service) ToggleChecklistItem(ctx context.Context, taskID int, itemRef string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, pos, err := s.findItem(taskID, itemRef)
	if err != nil {
		return domain.Task{}, err
	}

	s.tasks[idx].Checklist[pos].Completed = !s.tasks[idx].Checklist[pos].Completed
	s.tasks[idx].UpdatedAt = s.clock.Now()

	return s.tasks[idx].Clone(), s.persist(ctx, "toggle_checklist_item")
}

// RemoveChecklistItem deletes one item. itemRef is resolved like ToggleChecklistItem.
func (s *Service) RemoveChecklistItem(ctx context.Context, taskID int, itemRef string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, pos, err := s.findItem(taskID, itemRef)
	if err != nil {
		return domain.Task{}, err
	}

	s.tasks[idx].Checklist = slices.Delete(s.tasks[idx].Checklist, pos, pos+1)
	s.tasks[idx].UpdatedAt = s.clock.Now()

	return s.tasks[idx].Clone(), s.persist(ctx, "remove_checklist_item")
}

// findItem resolves a task index and checklist position. Callers hold s.mu.
func (s *Service) findItem(taskID int, itemRef string) (int, int, error) {
	idx := s.indexOf(taskID)
	if idx < 0 {
		return 0, 0, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, taskID)
	}

	checklist := s.tasks[idx].Checklist
	if pos := slices.IndexFunc(checklist, func(c domain.ChecklistItem) bool { return c.ID == itemRef }); pos >= 0 {
		return idx, pos, nil
	}

	if n, err := strconv.Atoi(itemRef); err == nil && n >= 1 && n <= len(checklist) {
		return idx, n - 1, nil
	}

	return 0, 0, fmt.Errorf("%w: %s", domain.ErrChecklistItemNotFound, itemRef)
}
