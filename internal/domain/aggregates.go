package domain

import (
	"slices"
	"time"
)

// ChecklistItem is a single sub-step of a task.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task is the unit of work tracked on the board.
// Order is nil for records written before ordering existed. It is filled in on load.
type Task struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Checklist   []ChecklistItem `json:"checklist"`
	Effort      Effort          `json:"effort"`
	Complexity  Complexity      `json:"complexity"`
	Status      TaskStatus      `json:"status"`
	Order       *int            `json:"order,omitempty"`
	TimeSpent   int             `json:"timeSpent,omitempty"` // seconds
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	GithubURL   *string         `json:"githubUrl,omitempty"`
	PipefyURL   *string         `json:"pipefyUrl,omitempty"`
	NotionURL   *string         `json:"notionUrl,omitempty"`
}

// Clone returns a deep copy so callers never share slices or pointers with stored state.
func (t Task) Clone() Task {
	c := t
	if t.Checklist != nil {
		c.Checklist = slices.Clone(t.Checklist)
	}
	c.Order = clonePtr(t.Order)
	c.GithubURL = clonePtr(t.GithubURL)
	c.PipefyURL = clonePtr(t.PipefyURL)
	c.NotionURL = clonePtr(t.NotionURL)
	return c
}

// OrderValue returns the position within the column, 0 when unset.
func (t Task) OrderValue() int {
	if t.Order == nil {
		return 0
	}
	return *t.Order
}

// IsArchived reports whether the task has left the board.
func (t Task) IsArchived() bool {
	return t.Status == TaskStatusArchived
}

// ChecklistProgress returns the number of completed items and the total.
func (t Task) ChecklistProgress() (completed, total int) {
	for _, item := range t.Checklist {
		if item.Completed {
			completed++
		}
	}
	return completed, len(t.Checklist)
}

// CanMarkDone reports whether every checklist item is complete.
// A task without a checklist can always be finished.
func (t Task) CanMarkDone() bool {
	completed, total := t.ChecklistProgress()
	return completed == total
}

// OrderedChecklist returns pending items first and completed items last,
// keeping insertion order inside each group.
func (t Task) OrderedChecklist() []ChecklistItem {
	out := make([]ChecklistItem, 0, len(t.Checklist))
	for _, item := range t.Checklist {
		if !item.Completed {
			out = append(out, item)
		}
	}
	for _, item := range t.Checklist {
		if item.Completed {
			out = append(out, item)
		}
	}
	return out
}

// CompareTasks orders tasks inside a column: by order, then creation time, then id.
func CompareTasks(a, b Task) int {
	if a.OrderValue() != b.OrderValue() {
		return a.OrderValue() - b.OrderValue()
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return a.ID - b.ID
}

// PomodoroSession is the single persisted countdown.
// StartTime and PausedAt are epoch milliseconds. Duration is in minutes.
// RemainingTime and ReportedTime are in seconds.
type PomodoroSession struct {
	TaskID        int    `json:"taskId"`
	Duration      int    `json:"duration"`
	StartTime     int64  `json:"startTime"`
	IsActive      bool   `json:"isActive"`
	IsPaused      bool   `json:"isPaused"`
	PausedAt      *int64 `json:"pausedAt,omitempty"`
	RemainingTime int    `json:"remainingTime"`
	IsCompleted   bool   `json:"isCompleted,omitempty"`
	ReportedTime  int    `json:"reportedTime,omitempty"`
}

// TotalSeconds returns the planned length of the session.
func (s PomodoroSession) TotalSeconds() int {
	return s.Duration * 60
}

// ElapsedSeconds returns the active seconds counted by the session at now.
// A paused session is frozen at its pause instant. The result is clamped to [0, TotalSeconds].
func (s PomodoroSession) ElapsedSeconds(now time.Time) int {
	ref := now.UnixMilli()
	if s.IsPaused && s.PausedAt != nil {
		ref = *s.PausedAt
	}
	elapsed := int((ref - s.StartTime) / 1000)
	return min(max(elapsed, 0), s.TotalSeconds())
}

// RemainingAt returns the seconds left at now.
func (s PomodoroSession) RemainingAt(now time.Time) int {
	return s.TotalSeconds() - s.ElapsedSeconds(now)
}

// UnreportedSeconds returns elapsed time not yet credited to the task.
func (s PomodoroSession) UnreportedSeconds(now time.Time) int {
	return max(s.ElapsedSeconds(now)-s.ReportedTime, 0)
}

// TimeReport credits focused seconds to a task.
type TimeReport struct {
	TaskID         int
	ElapsedSeconds int
}

// IsZero reports whether the report carries no time.
func (r TimeReport) IsZero() bool {
	return r.ElapsedSeconds <= 0
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
