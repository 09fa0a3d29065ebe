package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezkam/focusboard/internal/ptr"
)

func TestTask_CanMarkDone(t *testing.T) {
	assert.True(t, Task{}.CanMarkDone(), "empty checklist")

	task := Task{Checklist: []ChecklistItem{
		{ID: "a", Text: "one", Completed: true},
		{ID: "b", Text: "two"},
	}}
	assert.False(t, task.CanMarkDone())

	task.Checklist[1].Completed = true
	assert.True(t, task.CanMarkDone())
}

func TestTask_OrderedChecklistKeepsPendingFirst(t *testing.T) {
	task := Task{Checklist: []ChecklistItem{
		{ID: "1", Completed: true},
		{ID: "2"},
		{ID: "3", Completed: true},
		{ID: "4"},
	}}

	var ids []string
	for _, item := range task.OrderedChecklist() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids)
}

func TestTask_CloneIsDeep(t *testing.T) {
	original := Task{
		ID:        1,
		Order:     ptr.To(3),
		Checklist: []ChecklistItem{{ID: "a"}},
		GithubURL: ptr.To("https://example.com"),
	}
	clone := original.Clone()
	*clone.Order = 9
	clone.Checklist[0].Completed = true
	*clone.GithubURL = "changed"

	assert.Equal(t, 3, *original.Order)
	assert.False(t, original.Checklist[0].Completed)
	assert.Equal(t, "https://example.com", *original.GithubURL)
}

func TestCompareTasks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Task{ID: 2, Order: ptr.To(0), CreatedAt: base.Add(time.Minute)}
	b := Task{ID: 1, Order: ptr.To(0), CreatedAt: base}
	c := Task{ID: 3, Order: ptr.To(1), CreatedAt: base}

	assert.Positive(t, CompareTasks(a, b), "ties break on createdAt")
	assert.Negative(t, CompareTasks(a, c))
}

func TestPomodoroSession_Elapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s := PomodoroSession{TaskID: 1, Duration: 25, StartTime: start.UnixMilli(), IsActive: true}

	assert.Equal(t, 0, s.ElapsedSeconds(start))
	assert.Equal(t, 90, s.ElapsedSeconds(start.Add(90*time.Second+400*time.Millisecond)))
	assert.Equal(t, 1500, s.ElapsedSeconds(start.Add(2*time.Hour)), "capped at duration")
	assert.Equal(t, 0, s.ElapsedSeconds(start.Add(-time.Minute)), "clock skew clamps to zero")
	assert.Equal(t, 1410, s.RemainingAt(start.Add(90*time.Second)))

	pausedAt := start.Add(10 * time.Second).UnixMilli()
	s.IsPaused = true
	s.PausedAt = &pausedAt
	assert.Equal(t, 10, s.ElapsedSeconds(start.Add(time.Hour)), "paused session is frozen")

	s.ReportedTime = 4
	assert.Equal(t, 6, s.UnreportedSeconds(start.Add(time.Hour)))
}
