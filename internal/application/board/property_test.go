package board

import (
	"context"
	"slices"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/domain/domaintest"
)

var moveTargets = []domain.TaskStatus{
	domain.TaskStatusTodo,
	domain.TaskStatusProgress,
	domain.TaskStatusDoing,
	domain.TaskStatusDone,
}

func countStatus(tasks []domain.Task, status domain.TaskStatus) int {
	n := 0
	for _, t := range tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

func TestProperty_ColumnLimitsHold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		clock := domaintest.NewClock(t0)
		s := NewService(&mockRepo{}, clock)

		n := rapid.IntRange(1, 8).Draw(rt, "tasks")
		for id := 1; id <= n; id++ {
			status := rapid.SampledFrom(moveTargets).Draw(rt, "initial")
			if _, err := s.CreateTask(ctx, domain.NewTaskParams{ID: id, Title: "t", Status: string(status)}); err != nil {
				rt.Fatalf("create %d: %v", id, err)
			}
		}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for range steps {
			clock.Advance(time.Second)
			id := rapid.IntRange(1, n).Draw(rt, "id")
			target := rapid.SampledFrom(moveTargets).Draw(rt, "target")

			before := s.Tasks(ctx)
			result, err := s.MoveTask(ctx, id, target)
			if err != nil {
				rt.Fatalf("move %d to %s: %v", id, target, err)
			}

			after := s.Tasks(ctx)
			if got := countStatus(after, domain.TaskStatusProgress); got > 1 {
				rt.Fatalf("%d tasks in progress", got)
			}
			if got := countStatus(after, domain.TaskStatusDoing); got > 1 {
				rt.Fatalf("%d tasks doing", got)
			}
			if got := countStatus(after, domain.TaskStatusDone); got != 0 {
				rt.Fatalf("%d tasks stuck in done", got)
			}
			if target == domain.TaskStatusDone && result.Task.Status != domain.TaskStatusArchived {
				rt.Fatalf("done move landed in %s", result.Task.Status)
			}
			if len(after) != len(before) {
				rt.Fatalf("task count changed from %d to %d", len(before), len(after))
			}
			for i := range after {
				if after[i].OrderValue() != before[i].OrderValue() {
					rt.Fatalf("move changed order of task %d", after[i].ID)
				}
				if after[i].ID != id && after[i].IsArchived() != before[i].IsArchived() {
					rt.Fatalf("cascade touched archive state of task %d", after[i].ID)
				}
			}
		}
	})
}

func TestProperty_ReorderIsPermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		s := NewService(&mockRepo{}, domaintest.NewClock(t0))

		n := rapid.IntRange(1, 10).Draw(rt, "tasks")
		for id := 1; id <= n; id++ {
			if _, err := s.CreateTask(ctx, domain.NewTaskParams{ID: id, Title: "t"}); err != nil {
				rt.Fatalf("create: %v", err)
			}
		}

		id := rapid.IntRange(1, n).Draw(rt, "id")
		position := rapid.IntRange(-3, n+3).Draw(rt, "position")

		before := ids(s.Column(ctx, domain.TaskStatusTodo))
		column, err := s.ReorderWithinColumn(ctx, id, position)
		if err != nil {
			rt.Fatalf("reorder: %v", err)
		}
		after := ids(column)

		want := slices.Clone(before)
		slices.Sort(want)
		got := slices.Clone(after)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			rt.Fatalf("reorder is not a permutation: %v -> %v", before, after)
		}

		expected := min(max(position, 0), n-1)
		if after[expected] != id {
			rt.Fatalf("task %d at %v, want index %d", id, after, expected)
		}
		for rank, task := range column {
			if task.OrderValue() != rank {
				rt.Fatalf("order %d at rank %d", task.OrderValue(), rank)
			}
		}
	})
}
