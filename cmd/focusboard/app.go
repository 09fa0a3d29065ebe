package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rezkam/focusboard/internal/application/backup"
	"github.com/rezkam/focusboard/internal/application/board"
	"github.com/rezkam/focusboard/internal/application/focus"
	"github.com/rezkam/focusboard/internal/application/timer"
	"github.com/rezkam/focusboard/internal/config"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/infrastructure/observability"
	"github.com/rezkam/focusboard/internal/infrastructure/persistence/keyvalue"
	"github.com/rezkam/focusboard/internal/storage"
	"github.com/rezkam/focusboard/internal/storage/fs"
	"github.com/rezkam/focusboard/internal/storage/gcs"
	"github.com/rezkam/focusboard/internal/storage/memory"
	"github.com/rezkam/focusboard/internal/storage/sqlite"
)

// app opens storage and services on first use so commands like version
// never touch the data directory.
type app struct {
	cfg     *config.Config
	clock   domain.Clock
	metrics *observability.Metrics

	store   storage.Bucket
	closers []io.Closer

	board  *board.Service
	timer  *timer.Manager
	focus  *focus.Coordinator
	resume timer.LoadResult
}

func newApp(cfg *config.Config, clock domain.Clock, metrics *observability.Metrics) *app {
	return &app{cfg: cfg, clock: clock, metrics: metrics}
}

// Store returns the primary key-value store.
func (a *app) Store(ctx context.Context) (storage.Bucket, error) {
	if a.store != nil {
		return a.store, nil
	}

	switch a.cfg.Storage.Type {
	case config.StorageFS:
		s, err := fs.NewStore(a.cfg.Storage.FSDir)
		if err != nil {
			return nil, err
		}
		a.store = s
	case config.StorageSQLite:
		s, err := sqlite.NewStore(ctx, sqlite.Config{Path: a.cfg.Storage.SQLitePath})
		if err != nil {
			return nil, err
		}
		a.store = s
		a.closers = append(a.closers, s)
	case config.StorageMemory:
		a.store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown storage type %q", a.cfg.Storage.Type)
	}

	slog.DebugContext(ctx, "storage opened", "type", a.cfg.Storage.Type)
	return a.store, nil
}

// Open builds the board, the timer and the coordinator and resumes the stored state.
func (a *app) Open(ctx context.Context) (*focus.Coordinator, error) {
	if a.focus != nil {
		return a.focus, nil
	}

	store, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}
	repo := keyvalue.NewStore(store)

	var boardOpts []board.Option
	var timerOpts []timer.Option
	if a.metrics != nil {
		boardOpts = append(boardOpts, board.WithRecorder(a.metrics))
		timerOpts = append(timerOpts, timer.WithRecorder(a.metrics))
	}

	a.board = board.NewService(repo, a.clock, boardOpts...)
	a.timer = timer.NewManager(repo, a.clock, timerOpts...)
	coordinator := focus.NewCoordinator(a.board, a.timer, focus.Config{
		DefaultMinutes: a.cfg.Timer.DefaultMinutes,
	})

	result, err := coordinator.Resume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open board (a snapshot can be restored with `focusboard backup restore`): %w", err)
	}
	a.resume = result
	a.focus = coordinator
	return coordinator, nil
}

// Backups returns the snapshot service for the configured target.
func (a *app) Backups(ctx context.Context) (*backup.Service, error) {
	source, err := a.Store(ctx)
	if err != nil {
		return nil, err
	}

	var target storage.Bucket
	switch {
	case a.cfg.Backup.GCSBucket != "":
		s, err := gcs.NewStore(ctx, a.cfg.Backup.GCSBucket, a.cfg.Backup.Prefix)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		target = s
	case a.cfg.Backup.Dir != "":
		s, err := fs.NewStore(a.cfg.Backup.Dir)
		if err != nil {
			return nil, err
		}
		target = s
	default:
		return nil, fmt.Errorf("no backup target: set FOCUSBOARD_BACKUP_GCS_BUCKET or FOCUSBOARD_BACKUP_DIR")
	}

	return backup.NewService(source, target, a.clock, keyvalue.Keys), nil
}

// Close releases every opened store.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}
	a.closers = nil
}
