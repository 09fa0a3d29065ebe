package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/focusboard/internal/config"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/domain/domaintest"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	cfg   *config.Config
	clock *domaintest.Clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		cfg: &config.Config{
			Storage: config.StorageConfig{Type: config.StorageFS, FSDir: filepath.Join(dir, "data")},
			Timer:   config.TimerConfig{DefaultMinutes: 25, TickInterval: 5 * time.Millisecond},
			Backup:  config.BackupConfig{Dir: filepath.Join(dir, "backups")},
		},
		clock: domaintest.NewClock(t0),
	}
}

// run executes one command with a fresh app, like a separate process would.
func (h *harness) run(args ...string) (string, error) {
	a := newApp(h.cfg, h.clock, nil)
	defer a.Close()

	var out bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(args...)
	require.NoError(t, err, out)
	return out
}

func TestTaskCommands_BoardCascade(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun(t, "task", "add", "Write", "docs"), "created #1 Write docs in To Do")
	assert.Contains(t, h.mustRun(t, "task", "add", "Fix login", "-e", "XL", "-x", "Hard"), "created #2")
	h.mustRun(t, "task", "add", "Review PR")

	h.mustRun(t, "task", "move", "1", "doing")
	h.mustRun(t, "task", "move", "3", "row")
	out := h.mustRun(t, "task", "move", "2", "doing")
	assert.Contains(t, out, "#2 Fix login → Doing")
	assert.Contains(t, out, "bumped #1 Write docs → Row")
	assert.Contains(t, out, "bumped #3 Review PR → To Do")

	board := h.mustRun(t, "board")
	assert.Contains(t, board, "To Do (1)")
	assert.Contains(t, board, "Row (1)")
	assert.Contains(t, board, "Doing (1)")

	out = h.mustRun(t, "task", "done", "2")
	assert.Contains(t, out, "→ Archived")
	assert.Contains(t, h.mustRun(t, "archive"), "Fix login")

	out = h.mustRun(t, "task", "restore", "2")
	assert.Contains(t, out, "restored #2 Fix login to To Do")
}

func TestTaskCommands_Errors(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Only task")

	_, err := h.run("task", "show", "42")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = h.run("task", "show", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = h.run("task", "move", "1", "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidTaskStatus)

	_, err = h.run("task", "add", "Dup", "--id", "1")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	_, err = h.run("task", "add", "Bad effort", "-e", "XXL")
	assert.ErrorIs(t, err, domain.ErrInvalidEffort)

	_, err = h.run("task", "edit", "1")
	assert.ErrorIs(t, err, domain.ErrEmptyUpdateMask)
}

func TestTaskCommands_EditAndShow(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Draft", "--github", "https://github.com/acme/app/issues/1")

	h.mustRun(t, "task", "edit", "1", "--title", "Final", "-e", "XL", "--github", "")

	out := h.mustRun(t, "task", "show", "1")
	assert.Contains(t, out, "#1 Final")
	assert.Contains(t, out, "Effort:      XL")
	assert.Contains(t, out, "Complexity:  Medium")
	assert.NotContains(t, out, "GitHub")
}

func TestTaskCommands_ReorderAndDelete(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "one")
	h.mustRun(t, "task", "add", "two")
	h.mustRun(t, "task", "add", "three")

	out := h.mustRun(t, "task", "reorder", "3", "1")
	assert.Equal(t, "1. #3 three\n2. #1 one\n3. #2 two\n", out)

	assert.Contains(t, h.mustRun(t, "task", "rm", "1"), "deleted #1 one")
	_, err := h.run("task", "show", "1")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCheckCommands_GateCompletion(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Release", "-c", "tag", "-c", "notes")

	_, err := h.run("task", "done", "1")
	assert.ErrorIs(t, err, domain.ErrChecklistIncomplete)

	h.mustRun(t, "check", "toggle", "1", "1")
	h.mustRun(t, "check", "add", "1", "announce")
	out := h.mustRun(t, "check", "rm", "1", "3")
	assert.Contains(t, out, "#1 checklist 1/2")

	h.mustRun(t, "check", "toggle", "1", "2")
	assert.Contains(t, h.mustRun(t, "task", "done", "1"), "→ Archived")
}

func TestTimerCommands_PauseStopCreditsTime(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Deep work")

	assert.Contains(t, h.mustRun(t, "timer", "start", "1", "-m", "10"), "focusing on #1 for 10 minutes")
	assert.Contains(t, h.mustRun(t, "task", "show", "1"), "Status:      Doing")

	h.clock.Advance(4 * time.Minute)
	assert.Contains(t, h.mustRun(t, "timer", "status"), "▶ 06:00  #1 Deep work")
	assert.Contains(t, h.mustRun(t, "timer", "pause"), "paused")

	h.clock.Advance(10 * time.Minute)
	assert.Contains(t, h.mustRun(t, "timer", "status"), "⏸ 06:00 paused")

	h.mustRun(t, "timer", "stop")
	assert.Contains(t, h.mustRun(t, "task", "show", "1"), "Time spent:  4m")
	assert.Contains(t, h.mustRun(t, "timer", "status"), "no focus session")
}

func TestTimerCommands_Conflict(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "first")
	h.mustRun(t, "task", "add", "second")
	h.mustRun(t, "timer", "start", "1")

	h.clock.Advance(time.Minute)
	_, err := h.run("timer", "start", "2")
	require.ErrorIs(t, err, domain.ErrTimerConflict)
	assert.Contains(t, err.Error(), "--bump")

	h.mustRun(t, "timer", "start", "2", "--bump", "todo")

	first := h.mustRun(t, "task", "show", "1")
	assert.Contains(t, first, "Status:      To Do")
	assert.Contains(t, first, "Time spent:  1m")
	assert.Contains(t, h.mustRun(t, "timer", "status"), "#2 second")
}

func TestTimerCommands_FinishAfterExpiry(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Short")
	h.mustRun(t, "timer", "start", "1", "-m", "1")

	h.clock.Advance(5 * time.Minute)
	out := h.mustRun(t, "timer", "finish", "later")
	assert.Contains(t, out, "#1 Short → To Do, 1m spent")
	assert.NotContains(t, out, "note:")

	_, err := h.run("timer", "finish", "done")
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

func TestTimerCommands_ExpiryNote(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Short")
	h.mustRun(t, "timer", "start", "1", "-m", "2")

	h.clock.Advance(time.Hour)
	out := h.mustRun(t, "board")
	assert.Contains(t, out, "note: the 2 minute session on #1 ran out")
	assert.Contains(t, h.mustRun(t, "task", "show", "1"), "Time spent:  2m")
}

func TestTimerCommands_WatchUntilComplete(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Watched")

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := h.run("timer", "start", "1", "-m", "1", "--watch")
		done <- result{out, err}
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-done:
			require.NoError(t, r.err, r.out)
			assert.Contains(t, r.out, "1 minute session on #1 complete")

			out := h.mustRun(t, "timer", "finish", "reset")
			assert.Contains(t, out, "#1 Watched → Doing")
			assert.Contains(t, h.mustRun(t, "timer", "status"), "▶ 25:00")
			return
		case <-deadline:
			t.Fatal("watch did not return")
		case <-time.After(20 * time.Millisecond):
			h.clock.Advance(15 * time.Second)
		}
	}
}

func TestBackupCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "task", "add", "Keep me")

	assert.Contains(t, h.mustRun(t, "backup", "push"), "pushed focusboard-20240301T090000.000Z")
	assert.Contains(t, h.mustRun(t, "backup", "ls"), "focusboard-20240301T090000.000Z")

	h.mustRun(t, "task", "delete", "1")
	h.mustRun(t, "backup", "restore")

	assert.Contains(t, h.mustRun(t, "task", "show", "1"), "Keep me")
}

func TestBackupCommands_NoTarget(t *testing.T) {
	h := newHarness(t)
	h.cfg.Backup = config.BackupConfig{}

	_, err := h.run("backup", "list")
	assert.ErrorContains(t, err, "no backup target")
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "focusboard dev\n", h.mustRun(t, "version"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, bad := range []string{"", "x", "1.5", "0", "-3"} {
		_, err := parseID(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidID, bad)
	}
}
