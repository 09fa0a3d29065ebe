package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rezkam/focusboard/internal/domain"
)

// completionBuffer bounds undelivered completion events.
const completionBuffer = 4

// Completion is emitted once when a session reaches zero.
type Completion struct {
	Session domain.PomodoroSession
	// Retroactive is set when the session expired while nothing was running and
	// was only noticed on Load.
	Retroactive bool
	// Err wraps domain.ErrPersistence when the completed session could not be saved.
	Err error
}

// LoadResult describes what Load found in storage.
type LoadResult struct {
	// Session is the resumed session, nil when none is running.
	Session *domain.PomodoroSession
	// Expired is set when the stored session ran out while the process was down.
	Expired *Completion
	// Report carries the expired session's unreported time.
	Report domain.TimeReport
}

// Manager owns the single pomodoro session.
//
// Remaining time is always derived from the start timestamp and the clock,
// so it survives restarts. The stored record is written on every state
// change. A failed write keeps the in-memory session and returns an error
// wrapping domain.ErrPersistence.
type Manager struct {
	mu          sync.Mutex
	repo        Repository
	clock       domain.Clock
	recorder    Recorder
	session     *domain.PomodoroSession
	completions chan Completion
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder reports timer events to r.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// NewManager creates a manager with no session. Call Load to resume a stored one.
func NewManager(repo Repository, clock domain.Clock, opts ...Option) *Manager {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	m := &Manager{
		repo:        repo,
		clock:       clock,
		recorder:    nopRecorder{},
		completions: make(chan Completion, completionBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Completions delivers one event per session that reaches zero.
func (m *Manager) Completions() <-chan Completion {
	return m.completions
}

// Session returns a copy of the current session.
func (m *Manager) Session() (domain.PomodoroSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.PomodoroSession{}, false
	}
	s := *m.session
	if s.IsActive && !s.IsPaused {
		s.RemainingTime = s.RemainingAt(m.clock.Now())
	}
	return s, true
}

// Start begins a fresh countdown for taskID, replacing any existing session.
// Time of a replaced session is not reported; callers stop it first.
func (m *Manager) Start(ctx context.Context, taskID, minutes int) (domain.PomodoroSession, error) {
	if err := domain.ValidateTaskID(taskID); err != nil {
		return domain.PomodoroSession{}, err
	}
	if err := domain.ValidateTimerMinutes(minutes); err != nil {
		return domain.PomodoroSession{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && m.session.IsActive {
		slog.InfoContext(ctx, "replacing running pomodoro session",
			"previous_task_id", m.session.TaskID,
			"task_id", taskID)
	}

	s := domain.PomodoroSession{
		TaskID:        taskID,
		Duration:      minutes,
		StartTime:     m.clock.Now().UnixMilli(),
		IsActive:      true,
		RemainingTime: minutes * 60,
	}
	m.session = &s

	return s, m.save(ctx, s)
}

// Pause toggles the pause state of the running session.
// Pausing reports the focus time accumulated since the last report.
// Resuming shifts the start time by the paused gap so remaining time continues where it stopped.
func (m *Manager) Pause(ctx context.Context) (domain.TimeReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil || !m.session.IsActive {
		return domain.TimeReport{}, domain.ErrNoActiveSession
	}

	now := m.clock.Now()
	s := *m.session
	var report domain.TimeReport

	if s.IsPaused {
		if s.PausedAt != nil {
			s.StartTime += now.UnixMilli() - *s.PausedAt
		}
		s.IsPaused = false
		s.PausedAt = nil
	} else {
		report = m.takeReport(ctx, &s, now)
		pausedAt := now.UnixMilli()
		s.IsPaused = true
		s.PausedAt = &pausedAt
	}
	s.RemainingTime = s.RemainingAt(now)
	m.session = &s

	return report, m.save(ctx, s)
}

// Stop ends the session and reports its unreported focus time.
// Stopping without a session returns an empty report.
func (m *Manager) Stop(ctx context.Context) (domain.TimeReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.TimeReport{}, nil
	}

	s := *m.session
	report := m.takeReport(ctx, &s, m.clock.Now())
	m.session = nil

	if err := m.repo.DeleteSession(ctx); err != nil {
		slog.WarnContext(ctx, "failed to delete pomodoro session", "task_id", s.TaskID, "error", err)
		return report, fmt.Errorf("%w: delete session: %w", domain.ErrPersistence, err)
	}
	return report, nil
}

// Tick recomputes the remaining time. When the countdown reaches zero the
// session is marked completed and one Completion is emitted. The boolean is
// true only on that tick. A failure to save the completed session is returned
// and carried on the Completion; the in-memory session stays completed.
func (m *Manager) Tick(ctx context.Context) (domain.PomodoroSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.PomodoroSession{}, false, nil
	}
	if !m.session.IsActive || m.session.IsPaused {
		return *m.session, false, nil
	}

	now := m.clock.Now()
	m.session.RemainingTime = m.session.RemainingAt(now)
	if m.session.RemainingTime > 0 {
		return *m.session, false, nil
	}

	m.session.IsActive = false
	m.session.IsCompleted = true
	s := *m.session

	slog.InfoContext(ctx, "pomodoro session completed", "task_id", s.TaskID, "duration_minutes", s.Duration)
	err := m.save(ctx, s)
	m.emit(ctx, Completion{Session: s, Err: err})

	return s, true, err
}

// Run ticks every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Save failures reach callers on the Completion.
			_, _, _ = m.Tick(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Load resumes the stored session.
//
// A running session whose time ran out while nothing was ticking is deleted
// and returned as a retroactive completion, with its unreported time in the
// report. A session that already completed is kept until it is stopped or
// replaced. A corrupt record is deleted and treated as absent.
func (m *Manager) Load(ctx context.Context) (LoadResult, error) {
	stored, err := m.repo.LoadSession(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCorruptRecord) {
			return LoadResult{}, fmt.Errorf("%w: load session: %w", domain.ErrPersistence, err)
		}
		slog.WarnContext(ctx, "discarding corrupt pomodoro session", "error", err)
		if err := m.repo.DeleteSession(ctx); err != nil {
			return LoadResult{}, fmt.Errorf("%w: delete corrupt session: %w", domain.ErrPersistence, err)
		}
		stored = nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	if stored == nil {
		return LoadResult{}, nil
	}

	now := m.clock.Now()
	s := *stored
	s.RemainingTime = s.RemainingAt(now)

	// A completed record is still waiting for acknowledgement, so it stays.
	if s.IsCompleted || (s.IsActive && s.RemainingTime > 0) {
		m.session = &s
		return LoadResult{Session: &s}, nil
	}

	report := m.takeReport(ctx, &s, now)
	s.IsActive = false
	s.IsCompleted = true
	completion := Completion{Session: s, Retroactive: true}

	slog.InfoContext(ctx, "pomodoro session expired while stopped", "task_id", s.TaskID)
	if err := m.repo.DeleteSession(ctx); err != nil {
		slog.WarnContext(ctx, "failed to delete expired pomodoro session", "task_id", s.TaskID, "error", err)
		return LoadResult{Expired: &completion, Report: report},
			fmt.Errorf("%w: delete expired session: %w", domain.ErrPersistence, err)
	}
	m.emit(ctx, completion)

	return LoadResult{Expired: &completion, Report: report}, nil
}

// takeReport moves unreported elapsed time into a report. Callers hold m.mu.
func (m *Manager) takeReport(ctx context.Context, s *domain.PomodoroSession, now time.Time) domain.TimeReport {
	delta := s.UnreportedSeconds(now)
	s.ReportedTime += delta
	if delta > 0 {
		m.recorder.TimeReported(ctx, delta)
	}
	return domain.TimeReport{TaskID: s.TaskID, ElapsedSeconds: delta}
}

// emit delivers a completion without blocking. Callers hold m.mu.
func (m *Manager) emit(ctx context.Context, c Completion) {
	m.recorder.TimerCompleted(ctx, c.Session.TaskID)
	select {
	case m.completions <- c:
	default:
		slog.WarnContext(ctx, "dropping pomodoro completion, no reader", "task_id", c.Session.TaskID)
	}
}

// save writes s. Callers hold m.mu.
func (m *Manager) save(ctx context.Context, s domain.PomodoroSession) error {
	if err := m.repo.SaveSession(ctx, s); err != nil {
		slog.WarnContext(ctx, "failed to persist pomodoro session, keeping in-memory state",
			"task_id", s.TaskID,
			"error", err)
		return fmt.Errorf("%w: save session: %w", domain.ErrPersistence, err)
	}
	return nil
}

// FormatTime renders seconds as MM:SS. Minutes grow past two digits when needed.
func FormatTime(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
