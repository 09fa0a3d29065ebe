package domain

// TaskStatus represents where a task sits on the board.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusDoing    TaskStatus = "doing"
	TaskStatusDone     TaskStatus = "done"
	TaskStatusArchived TaskStatus = "archived"
)

// BoardColumns lists the visible kanban columns in display order.
// Archived tasks are kept out of the board and listed separately.
var BoardColumns = []TaskStatus{
	TaskStatusTodo,
	TaskStatusProgress,
	TaskStatusDoing,
	TaskStatusDone,
}

// Label returns the column heading shown to users.
// The progress column is displayed as "Row".
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusProgress:
		return "Row"
	case TaskStatusDoing:
		return "Doing"
	case TaskStatusDone:
		return "Done"
	case TaskStatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusProgress, TaskStatusDoing, TaskStatusDone, TaskStatusArchived:
		return true
	default:
		return false
	}
}

// Effort is the t-shirt size estimate of a task.
type Effort string

const (
	EffortXS Effort = "XS"
	EffortS  Effort = "S"
	EffortM  Effort = "M"
	EffortL  Effort = "L"
	EffortXL Effort = "XL"
)

// Complexity is the perceived difficulty of a task.
type Complexity string

const (
	ComplexityEasy   Complexity = "Easy"
	ComplexityMedium Complexity = "Medium"
	ComplexityHard   Complexity = "Hard"
)

// Defaults applied when a task is created without explicit values.
const (
	DefaultEffort     = EffortM
	DefaultComplexity = ComplexityMedium
	DefaultStatus     = TaskStatusTodo
)

// Timer bounds in minutes.
const (
	MinTimerMinutes     = 1
	MaxTimerMinutes     = 999
	DefaultTimerMinutes = 25
)
