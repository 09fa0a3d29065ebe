// Package keyvalue persists the board and the pomodoro session as JSON
// records in any storage.KV backend.
package keyvalue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rezkam/focusboard/internal/application/board"
	"github.com/rezkam/focusboard/internal/application/timer"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/storage"
)

// Storage keys. They match the record names used by earlier versions of the app.
const (
	TasksKey   = "tasks"
	SessionKey = "pomodoro-session"
)

// Keys lists every record the application owns.
var Keys = []string{TasksKey, SessionKey}

// Store implements the board and timer repositories over a KV backend.
type Store struct {
	kv storage.KV
}

var (
	_ board.Repository = (*Store)(nil)
	_ timer.Repository = (*Store)(nil)
)

// NewStore wraps kv.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// LoadTasks decodes the task collection. A missing record is an empty board.
func (s *Store) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	data, err := s.kv.Get(ctx, TasksKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %w", domain.ErrCorruptRecord, err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// SaveTasks encodes and writes the full collection.
func (s *Store) SaveTasks(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := s.kv.Set(ctx, TasksKey, data); err != nil {
		return fmt.Errorf("failed to write tasks: %w", err)
	}
	return nil
}

// LoadSession decodes the stored session, nil when absent.
func (s *Store) LoadSession(ctx context.Context) (*domain.PomodoroSession, error) {
	data, err := s.kv.Get(ctx, SessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session domain.PomodoroSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: session: %w", domain.ErrCorruptRecord, err)
	}
	if session.TaskID <= 0 || session.Duration <= 0 {
		return nil, fmt.Errorf("%w: session missing task or duration", domain.ErrCorruptRecord)
	}
	return &session, nil
}

// SaveSession encodes and writes the session.
func (s *Store) SaveSession(ctx context.Context, session domain.PomodoroSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// DeleteSession removes the session record.
func (s *Store) DeleteSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
