package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/ptr"
)

// Service owns the task collection and enforces the column rules.
//
// Every mutating operation applies its change in memory, then writes the
// whole collection once. When the write fails the in-memory change is kept,
// the failure is logged and the returned error wraps domain.ErrPersistence.
// Returned values are valid in that case.
type Service struct {
	mu       sync.Mutex
	repo     Repository
	clock    domain.Clock
	recorder Recorder
	tasks    []domain.Task
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder reports board events to r.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService creates a board service with an empty collection. Call Load to read stored tasks.
func NewService(repo Repository, clock domain.Clock, opts ...Option) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	s := &Service{
		repo:     repo,
		clock:    clock,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the stored one.
// Tasks without an order get one per column, following creation time.
// A read failure leaves the board empty and is returned wrapped in domain.ErrPersistence.
func (s *Service) Load(ctx context.Context) error {
	tasks, err := s.repo.LoadTasks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.tasks = nil
		slog.WarnContext(ctx, "failed to load tasks, starting with an empty board", "error", err)
		return fmt.Errorf("%w: load tasks: %w", domain.ErrPersistence, err)
	}

	s.tasks = tasks
	if assignMissingOrders(s.tasks) {
		return s.persist(ctx, "assign_orders")
	}
	return nil
}

// CreateTask adds a task. Creating straight into progress, doing or done
// applies the same cascade as a move, and done lands in the archive.
func (s *Service) CreateTask(ctx context.Context, params domain.NewTaskParams) (domain.Task, error) {
	n, err := params.Normalize()
	if err != nil {
		return domain.Task{}, err
	}

	checklist := make([]domain.ChecklistItem, 0, len(n.Checklist))
	for _, text := range n.Checklist {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Task{}, fmt.Errorf("failed to generate checklist id: %w", err)
		}
		checklist = append(checklist, domain.ChecklistItem{ID: id.String(), Text: text})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(n.ID) >= 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrDuplicateID, n.ID)
	}

	now := s.clock.Now()
	status := landingStatus(n.Status)
	task := domain.Task{
		ID:          n.ID,
		Title:       n.Title.String(),
		Description: n.Description,
		Checklist:   checklist,
		Effort:      n.Effort,
		Complexity:  n.Complexity,
		Status:      status,
		Order:       ptr.To(s.nextOrder(status)),
		CreatedAt:   now,
		UpdatedAt:   now,
		GithubURL:   n.GithubURL,
		PipefyURL:   n.PipefyURL,
		NotionURL:   n.NotionURL,
	}

	bumped := s.cascade(n.ID, status, now)
	s.tasks = append(s.tasks, task)
	s.recordMove(ctx, status, len(bumped))

	return task.Clone(), s.persist(ctx, "create_task")
}

// UpdateTask applies the fields named in the update mask and refreshes updatedAt.
// Status and order are never touched here.
func (s *Service) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (domain.Task, error) {
	if err := params.Validate(); err != nil {
		return domain.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(params.ID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, params.ID)
	}

	task := s.tasks[idx].Clone()
	for _, field := range params.UpdateMask {
		switch field {
		case domain.FieldTitle:
			title, _ := domain.NewTitle(*params.Title)
			task.Title = title.String()
		case domain.FieldDescription:
			task.Description = ptr.Deref(params.Description, "")
		case domain.FieldChecklist:
			checklist, err := withItemIDs(params.Checklist)
			if err != nil {
				return domain.Task{}, err
			}
			task.Checklist = checklist
		case domain.FieldEffort:
			task.Effort = *params.Effort
		case domain.FieldComplexity:
			task.Complexity = *params.Complexity
		case domain.FieldGithubURL:
			task.GithubURL = emptyToNil(params.GithubURL)
		case domain.FieldPipefyURL:
			task.PipefyURL = emptyToNil(params.PipefyURL)
		case domain.FieldNotionURL:
			task.NotionURL = emptyToNil(params.NotionURL)
		}
	}
	task.UpdatedAt = s.clock.Now()
	s.tasks[idx] = task

	return task.Clone(), s.persist(ctx, "update_task")
}

// DeleteTask removes a task permanently and returns it.
func (s *Service) DeleteTask(ctx context.Context, id int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, id)
	}

	removed := s.tasks[idx]
	s.tasks = slices.Delete(s.tasks, idx, idx+1)

	return removed, s.persist(ctx, "delete_task")
}

// RecordTimeSpent adds a timer report to the task's accumulated focus time.
// Empty reports are ignored.
func (s *Service) RecordTimeSpent(ctx context.Context, report domain.TimeReport) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(report.TaskID)
	if idx < 0 {
		return domain.Task{}, fmt.Errorf("%w: %d", domain.ErrTaskNotFound, report.TaskID)
	}
	if report.IsZero() {
		return s.tasks[idx].Clone(), nil
	}

	s.tasks[idx].TimeSpent += report.ElapsedSeconds
	s.tasks[idx].UpdatedAt = s.clock.Now()

	return s.tasks[idx].Clone(), s.persist(ctx, "record_time")
}

// persist writes the full collection. Callers hold s.mu.
func (s *Service) persist(ctx context.Context, op string) error {
	snapshot := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		snapshot[i] = t.Clone()
	}

	if err := s.repo.SaveTasks(ctx, snapshot); err != nil {
		slog.WarnContext(ctx, "failed to persist tasks, keeping in-memory state",
			"operation", op,
			"error", err)
		return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
	}
	return nil
}

// indexOf returns the slice position of id, or -1. Callers hold s.mu.
func (s *Service) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

// nextOrder returns one past the highest order in the column, or 0 for an empty column.
func (s *Service) nextOrder(status domain.TaskStatus) int {
	highest := -1
	for _, t := range s.tasks {
		if t.Status == status && t.Order != nil {
			highest = max(highest, *t.Order)
		}
	}
	return highest + 1
}

// assignMissingOrders numbers tasks lacking an order after the ordered ones
// in their column, by creation time. Reports whether anything changed.
func assignMissingOrders(tasks []domain.Task) bool {
	next := make(map[domain.TaskStatus]int)
	for _, t := range tasks {
		if t.Order != nil {
			next[t.Status] = max(next[t.Status], *t.Order+1)
		}
	}

	var missing []int
	for i, t := range tasks {
		if t.Order == nil {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return false
	}

	slices.SortStableFunc(missing, func(a, b int) int {
		return tasks[a].CreatedAt.Compare(tasks[b].CreatedAt)
	})
	for _, i := range missing {
		status := tasks[i].Status
		tasks[i].Order = ptr.To(next[status])
		next[status]++
	}
	return true
}

func withItemIDs(items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	out := make([]domain.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.Text == "" {
			return nil, domain.ErrChecklistItemRequired
		}
		if item.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, fmt.Errorf("failed to generate checklist id: %w", err)
			}
			item.ID = id.String()
		}
		out = append(out, item)
	}
	return out, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return ptr.To(*s)
}

// IsPersistenceError reports whether err only signals a failed write,
// meaning the in-memory change went through.
func IsPersistenceError(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}
