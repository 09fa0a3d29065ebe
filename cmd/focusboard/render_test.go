package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezkam/focusboard/internal/application/board"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/ptr"
)

func TestRenderBoard(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	columns := []board.ColumnView{
		{Status: domain.TaskStatusTodo, Tasks: []domain.Task{{
			ID: 1, Title: "Write docs", Effort: domain.EffortS, Complexity: domain.ComplexityEasy,
			Status: domain.TaskStatusTodo, CreatedAt: created,
			Checklist: []domain.ChecklistItem{{ID: "a", Text: "outline", Completed: true}, {ID: "b", Text: "draft"}},
		}}},
		{Status: domain.TaskStatusProgress},
		{Status: domain.TaskStatusDoing, Tasks: []domain.Task{{
			ID: 2, Title: "Fix login", Effort: domain.EffortM, Complexity: domain.ComplexityHard,
			Status: domain.TaskStatusDoing, TimeSpent: 3900, CreatedAt: created,
		}}},
		{Status: domain.TaskStatusDone},
	}
	session := &domain.PomodoroSession{TaskID: 2, Duration: 25, IsActive: true, RemainingTime: 1440}

	out := renderBoard(columns, session)

	assert.Contains(t, out, "To Do (1)")
	assert.Contains(t, out, "Row (0)")
	assert.Contains(t, out, "Doing (1)")
	assert.Contains(t, out, "Done (0)")
	assert.Contains(t, out, "#1 Write docs")
	assert.Contains(t, out, "☑ 1/2")
	assert.Contains(t, out, "#2 Fix login")
	assert.Contains(t, out, "1h 05m")
	assert.Contains(t, out, "▶ 24:00")
	assert.Contains(t, out, "empty")
}

func TestRenderTask_NumbersChecklistByInsertion(t *testing.T) {
	task := domain.Task{
		ID: 7, Title: "Release", Status: domain.TaskStatusProgress,
		Effort: domain.EffortL, Complexity: domain.ComplexityMedium,
		GithubURL: ptr.To("https://github.com/acme/app/pull/1"),
		Checklist: []domain.ChecklistItem{
			{ID: "a", Text: "tag", Completed: true},
			{ID: "b", Text: "notes"},
		},
	}

	out := renderTask(task)

	assert.Contains(t, out, "#7 Release")
	assert.Contains(t, out, "Status:      Row")
	assert.Contains(t, out, "https://github.com/acme/app/pull/1")
	assert.NotContains(t, out, "Pipefy")
	assert.Contains(t, out, "Checklist 1/2")
	assert.Contains(t, out, "2. [ ] notes")
	assert.Contains(t, out, "1. [x] tag")
	assert.Less(t, strings.Index(out, "notes"), strings.Index(out, "tag\n"), "pending items are listed first")
}

func TestRenderArchive(t *testing.T) {
	assert.Contains(t, renderArchive(nil), "archive is empty")

	out := renderArchive([]domain.Task{{
		ID: 3, Title: "Ship it", TimeSpent: 1500,
		UpdatedAt: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		Checklist: []domain.ChecklistItem{{ID: "a", Text: "x", Completed: true}},
	}})
	assert.Contains(t, out, "Ship it")
	assert.Contains(t, out, "☑ 1/1")
	assert.Contains(t, out, "25m")
}

func TestTimerLine(t *testing.T) {
	tests := []struct {
		name    string
		session domain.PomodoroSession
		want    string
	}{
		{"running", domain.PomodoroSession{IsActive: true, RemainingTime: 754}, "▶ 12:34"},
		{"paused", domain.PomodoroSession{IsActive: true, IsPaused: true, RemainingTime: 60}, "⏸ 01:00 paused"},
		{"completed", domain.PomodoroSession{IsCompleted: true}, "✔ 00:00 done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timerLine(tt.session))
		})
	}
}

func TestRenderStatus_DeletedTask(t *testing.T) {
	out := renderStatus(domain.PomodoroSession{TaskID: 9, IsActive: true, RemainingTime: 30}, domain.Task{})
	assert.Contains(t, out, "#9 (deleted task)")
}

func TestFormatSpent(t *testing.T) {
	assert.Equal(t, "0s", formatSpent(0))
	assert.Equal(t, "40s", formatSpent(40))
	assert.Equal(t, "12m", formatSpent(12*60+5))
	assert.Equal(t, "2h 00m", formatSpent(7200))
}

func TestNextTaskID(t *testing.T) {
	assert.Equal(t, 1, nextTaskID(nil))
	assert.Equal(t, 8, nextTaskID([]domain.Task{{ID: 3}, {ID: 7}, {ID: 1}}))
}
