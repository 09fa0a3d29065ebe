// Package focus ties the board and the pomodoro timer together.
// It resolves timer conflicts, credits focused time to tasks and
// applies the completion actions.
package focus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rezkam/focusboard/internal/application/board"
	"github.com/rezkam/focusboard/internal/application/timer"
	"github.com/rezkam/focusboard/internal/domain"
)

// Resolution says where the task owning a running timer goes when another task starts.
type Resolution string

const (
	// ResolutionNone refuses to start and returns a *ConflictError.
	ResolutionNone Resolution = ""
	// ResolutionRow sends the current task to the progress column.
	ResolutionRow Resolution = "row"
	// ResolutionTodo sends the current task back to todo.
	ResolutionTodo Resolution = "todo"
)

// ParseResolution accepts "", "row", "progress" and "todo".
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ResolutionNone, nil
	case "row", "progress":
		return ResolutionRow, nil
	case "todo":
		return ResolutionTodo, nil
	default:
		return "", fmt.Errorf("unknown conflict resolution %q, expected row or todo", s)
	}
}

func (r Resolution) status() domain.TaskStatus {
	if r == ResolutionRow {
		return domain.TaskStatusProgress
	}
	return domain.TaskStatusTodo
}

// FinishAction is the user's answer to a completed session.
type FinishAction string

const (
	// FinishDone credits the time and moves the task to done.
	FinishDone FinishAction = "done"
	// FinishReset starts another default-length session on the same task.
	FinishReset FinishAction = "reset"
	// FinishLater credits the time and sends the task back to todo.
	FinishLater FinishAction = "later"
)

// ParseFinishAction validates a completion action name.
func ParseFinishAction(s string) (FinishAction, error) {
	switch a := FinishAction(strings.ToLower(strings.TrimSpace(s))); a {
	case FinishDone, FinishReset, FinishLater:
		return a, nil
	default:
		return "", fmt.Errorf("unknown finish action %q, expected done, reset or later", s)
	}
}

// Default configuration values.
const (
	DefaultMinutes = domain.DefaultTimerMinutes
)

// Config holds configuration for the Coordinator.
type Config struct {
	// DefaultMinutes is used when StartFocus gets 0 minutes and by FinishReset.
	DefaultMinutes int
}

// Coordinator runs the composite board and timer operations.
// Board writes that fail to persist do not abort an operation. They are
// joined into the returned error, which then wraps domain.ErrPersistence.
type Coordinator struct {
	mu      sync.Mutex
	board   *board.Service
	timer   *timer.Manager
	config  Config
	tracer  trace.Tracer
	expired *domain.PomodoroSession
}

// NewCoordinator creates a coordinator over the given services.
func NewCoordinator(b *board.Service, t *timer.Manager, config Config) *Coordinator {
	if config.DefaultMinutes <= 0 {
		config.DefaultMinutes = DefaultMinutes
	}
	return &Coordinator{
		board:  b,
		timer:  t,
		config: config,
		tracer: otel.Tracer("focusboard/focus"),
	}
}

// Resume loads the board and the stored session. Time from a session that
// expired while nothing was running is credited to its task, and the session
// stays available to Finish for this process.
func (c *Coordinator) Resume(ctx context.Context) (timer.LoadResult, error) {
	ctx, span := c.tracer.Start(ctx, "focus.Resume")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	var pe persistErrs
	if err := pe.check(c.board.Load(ctx)); err != nil {
		return timer.LoadResult{}, c.fail(span, err)
	}

	result, err := c.timer.Load(ctx)
	if err := pe.check(err); err != nil {
		return timer.LoadResult{}, c.fail(span, err)
	}
	if result.Expired != nil {
		s := result.Expired.Session
		c.expired = &s
		if err := pe.check(c.credit(ctx, result.Report)); err != nil {
			return result, c.fail(span, err)
		}
	}
	return result, pe.err()
}

// StartFocus starts a session on taskID and moves the task to doing.
//
// minutes of 0 selects the configured default. When a different task owns a
// running session, bump decides what happens: ResolutionNone returns a
// *ConflictError and changes nothing, otherwise the current session is
// stopped, its time credited, and its task moved to the chosen column before
// the new session starts. Starting the task that already owns the running
// session returns that session unchanged.
func (c *Coordinator) StartFocus(ctx context.Context, taskID, minutes int, bump Resolution) (domain.PomodoroSession, error) {
	ctx, span := c.tracer.Start(ctx, "focus.StartFocus", trace.WithAttributes(
		attribute.Int("task.id", taskID),
		attribute.Int("timer.minutes", minutes),
		attribute.String("timer.resolution", string(bump)),
	))
	defer span.End()

	if minutes == 0 {
		minutes = c.config.DefaultMinutes
	}
	if err := domain.ValidateTimerMinutes(minutes); err != nil {
		return domain.PomodoroSession{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	task, err := c.board.Task(ctx, taskID)
	if err != nil {
		return domain.PomodoroSession{}, err
	}
	if task.IsArchived() {
		return domain.PomodoroSession{}, fmt.Errorf("%w: %d", domain.ErrTaskArchived, taskID)
	}

	var pe persistErrs
	if current, ok := c.timer.Session(); ok {
		switch {
		case current.IsActive && current.TaskID == taskID:
			return current, nil
		case current.IsActive:
			if bump == ResolutionNone {
				owner, err := c.board.Task(ctx, current.TaskID)
				if err != nil {
					owner = domain.Task{ID: current.TaskID}
				}
				return current, &ConflictError{Current: owner, Requested: task, Session: current}
			}
			slog.InfoContext(ctx, "resolving timer conflict",
				"current_task_id", current.TaskID,
				"task_id", taskID,
				"resolution", string(bump))
			if err := pe.check(c.stopAndCredit(ctx)); err != nil {
				return domain.PomodoroSession{}, c.fail(span, err)
			}
			if err := pe.check(ignoreMissing(c.moveTask(ctx, current.TaskID, bump.status()))); err != nil {
				return domain.PomodoroSession{}, c.fail(span, err)
			}
		default:
			if err := pe.check(c.stopAndCredit(ctx)); err != nil {
				return domain.PomodoroSession{}, c.fail(span, err)
			}
		}
	}

	session, err := c.timer.Start(ctx, taskID, minutes)
	if err := pe.check(err); err != nil {
		return domain.PomodoroSession{}, c.fail(span, err)
	}
	c.expired = nil
	if task.Status != domain.TaskStatusDoing {
		if err := pe.check(c.moveTask(ctx, taskID, domain.TaskStatusDoing)); err != nil {
			return session, c.fail(span, err)
		}
	}

	slog.InfoContext(ctx, "focus session started", "task_id", taskID, "duration_minutes", minutes)
	return session, pe.err()
}

// TogglePause pauses or resumes the running session and credits the time
// accumulated before a pause.
func (c *Coordinator) TogglePause(ctx context.Context) (domain.PomodoroSession, error) {
	ctx, span := c.tracer.Start(ctx, "focus.TogglePause")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	var pe persistErrs
	report, err := c.timer.Pause(ctx)
	if err := pe.check(err); err != nil {
		return domain.PomodoroSession{}, err
	}
	if err := pe.check(c.credit(ctx, report)); err != nil {
		return domain.PomodoroSession{}, c.fail(span, err)
	}

	session, _ := c.timer.Session()
	return session, pe.err()
}

// StopFocus ends the session and credits its remaining unreported time.
func (c *Coordinator) StopFocus(ctx context.Context) (domain.TimeReport, error) {
	ctx, span := c.tracer.Start(ctx, "focus.StopFocus")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	var pe persistErrs
	report, err := c.timer.Stop(ctx)
	if err := pe.check(err); err != nil {
		return report, c.fail(span, err)
	}
	c.expired = nil
	if err := pe.check(c.credit(ctx, report)); err != nil {
		return report, c.fail(span, err)
	}
	return report, pe.err()
}

// Finish applies the user's answer to a completed session and returns the task afterwards.
func (c *Coordinator) Finish(ctx context.Context, action FinishAction) (domain.Task, error) {
	ctx, span := c.tracer.Start(ctx, "focus.Finish", trace.WithAttributes(
		attribute.String("finish.action", string(action)),
	))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.timer.Session()
	if !ok && c.expired != nil {
		session, ok = *c.expired, true
	}
	if !ok {
		return domain.Task{}, domain.ErrNoActiveSession
	}
	taskID := session.TaskID

	task, err := c.board.Task(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	var pe persistErrs
	switch action {
	case FinishDone:
		if !task.CanMarkDone() {
			return task, fmt.Errorf("%w: task %d", domain.ErrChecklistIncomplete, taskID)
		}
		if err := pe.check(c.stopAndCredit(ctx)); err != nil {
			return task, c.fail(span, err)
		}
		if err := pe.check(c.moveTask(ctx, taskID, domain.TaskStatusDone)); err != nil {
			return task, c.fail(span, err)
		}
	case FinishReset:
		if err := pe.check(c.stopAndCredit(ctx)); err != nil {
			return task, c.fail(span, err)
		}
		if _, err := c.timer.Start(ctx, taskID, c.config.DefaultMinutes); pe.check(err) != nil {
			return task, c.fail(span, err)
		}
		if err := pe.check(c.moveTask(ctx, taskID, domain.TaskStatusDoing)); err != nil {
			return task, c.fail(span, err)
		}
	case FinishLater:
		if err := pe.check(c.stopAndCredit(ctx)); err != nil {
			return task, c.fail(span, err)
		}
		if err := pe.check(c.moveTask(ctx, taskID, domain.TaskStatusTodo)); err != nil {
			return task, c.fail(span, err)
		}
	default:
		return task, fmt.Errorf("unknown finish action %q", action)
	}
	c.expired = nil

	task, err = c.board.Task(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	return task, pe.err()
}

// CompleteTask moves a task to done once its checklist is complete.
// A timer owned by the task is stopped and its time credited first.
func (c *Coordinator) CompleteTask(ctx context.Context, taskID int) (board.MoveResult, error) {
	ctx, span := c.tracer.Start(ctx, "focus.CompleteTask", trace.WithAttributes(attribute.Int("task.id", taskID)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	task, err := c.board.Task(ctx, taskID)
	if err != nil {
		return board.MoveResult{}, err
	}
	if !task.CanMarkDone() {
		completed, total := task.ChecklistProgress()
		return board.MoveResult{}, fmt.Errorf("%w: %d of %d items done", domain.ErrChecklistIncomplete, completed, total)
	}

	var pe persistErrs
	if session, ok := c.timer.Session(); ok && session.TaskID == taskID {
		if err := pe.check(c.stopAndCredit(ctx)); err != nil {
			return board.MoveResult{}, c.fail(span, err)
		}
	}

	result, err := c.board.MoveTask(ctx, taskID, domain.TaskStatusDone)
	if err := pe.check(err); err != nil {
		return board.MoveResult{}, c.fail(span, err)
	}
	return result, pe.err()
}

// MoveTask moves a task on the board. Moving the timer's task to done goes
// through CompleteTask so its time is credited.
func (c *Coordinator) MoveTask(ctx context.Context, taskID int, status domain.TaskStatus) (board.MoveResult, error) {
	if status == domain.TaskStatusDone {
		return c.CompleteTask(ctx, taskID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.board.MoveTask(ctx, taskID, status)
}

// DeleteTask removes a task. A session owned by the task is stopped and its
// time discarded.
func (c *Coordinator) DeleteTask(ctx context.Context, taskID int) (domain.Task, error) {
	ctx, span := c.tracer.Start(ctx, "focus.DeleteTask", trace.WithAttributes(attribute.Int("task.id", taskID)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.board.Task(ctx, taskID); err != nil {
		return domain.Task{}, err
	}

	var pe persistErrs
	if session, ok := c.timer.Session(); ok && session.TaskID == taskID {
		if _, err := c.timer.Stop(ctx); pe.check(err) != nil {
			return domain.Task{}, c.fail(span, err)
		}
		slog.InfoContext(ctx, "stopped timer of deleted task", "task_id", taskID)
	}
	if c.expired != nil && c.expired.TaskID == taskID {
		c.expired = nil
	}

	removed, err := c.board.DeleteTask(ctx, taskID)
	if err := pe.check(err); err != nil {
		return domain.Task{}, c.fail(span, err)
	}
	return removed, pe.err()
}

// Status returns the current session and the task it belongs to.
// The task is zero when the session outlived its task.
func (c *Coordinator) Status(ctx context.Context) (domain.PomodoroSession, domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.timer.Session()
	if !ok {
		return domain.PomodoroSession{}, domain.Task{}, false
	}
	task, err := c.board.Task(ctx, session.TaskID)
	if err != nil {
		task = domain.Task{}
	}
	return session, task, true
}

// HandleCompletion reacts to a completion event from the timer.
// The session stays in place until Finish is called.
func (c *Coordinator) HandleCompletion(ctx context.Context, completion timer.Completion) {
	ctx, span := c.tracer.Start(ctx, "focus.HandleCompletion", trace.WithAttributes(
		attribute.Int("task.id", completion.Session.TaskID),
		attribute.Bool("timer.retroactive", completion.Retroactive),
	))
	defer span.End()

	slog.InfoContext(ctx, "focus session finished",
		"task_id", completion.Session.TaskID,
		"duration_minutes", completion.Session.Duration,
		"retroactive", completion.Retroactive)
}

// stopAndCredit stops the session and adds its time to the owning task. Callers hold c.mu.
func (c *Coordinator) stopAndCredit(ctx context.Context) error {
	var pe persistErrs
	report, err := c.timer.Stop(ctx)
	if err := pe.check(err); err != nil {
		return err
	}
	if err := pe.check(c.credit(ctx, report)); err != nil {
		return err
	}
	return pe.err()
}

// credit records report on its task. A task deleted meanwhile is skipped.
func (c *Coordinator) credit(ctx context.Context, report domain.TimeReport) error {
	if report.IsZero() {
		return nil
	}
	_, err := c.board.RecordTimeSpent(ctx, report)
	if errors.Is(err, domain.ErrTaskNotFound) {
		slog.WarnContext(ctx, "dropping focus time for missing task",
			"task_id", report.TaskID,
			"seconds", report.ElapsedSeconds)
		return nil
	}
	return err
}

func (c *Coordinator) moveTask(ctx context.Context, taskID int, status domain.TaskStatus) error {
	_, err := c.board.MoveTask(ctx, taskID, status)
	return err
}

func (c *Coordinator) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ignoreMissing treats a missing task as done. The timer may outlive its task.
func ignoreMissing(err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil
	}
	return err
}

// persistErrs collects persistence failures so a composite operation can
// finish its in-memory steps before reporting them.
type persistErrs []error

// check returns err unless it only signals a failed write, in which case it is kept for later.
func (p *persistErrs) check(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrPersistence) {
		*p = append(*p, err)
		return nil
	}
	return err
}

func (p persistErrs) err() error {
	return errors.Join(p...)
}
