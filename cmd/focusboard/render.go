package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rezkam/focusboard/internal/application/board"
	"github.com/rezkam/focusboard/internal/application/timer"
	"github.com/rezkam/focusboard/internal/domain"
	"github.com/rezkam/focusboard/internal/ptr"
)

const columnWidth = 30

var (
	columnStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(columnWidth)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	columnColors = map[domain.TaskStatus]lipgloss.Color{
		domain.TaskStatusTodo:     lipgloss.Color("245"),
		domain.TaskStatusProgress: lipgloss.Color("141"),
		domain.TaskStatusDoing:    lipgloss.Color("226"),
		domain.TaskStatusDone:     lipgloss.Color("46"),
	}
)

// renderBoard draws the four columns side by side. The task owning an
// active session is marked with its remaining time.
func renderBoard(columns []board.ColumnView, session *domain.PomodoroSession) string {
	rendered := make([]string, 0, len(columns))
	for _, col := range columns {
		var b strings.Builder
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Tasks))))
		for _, task := range col.Tasks {
			b.WriteString("\n\n")
			b.WriteString(renderCard(task, session))
		}
		if len(col.Tasks) == 0 {
			b.WriteString("\n\n" + mutedStyle.Render("empty"))
		}
		style := columnStyle.BorderForeground(columnColors[col.Status])
		rendered = append(rendered, style.Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCard(task domain.Task, session *domain.PomodoroSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", task.ID, task.Title)

	meta := []string{string(task.Effort), string(task.Complexity)}
	if done, total := task.ChecklistProgress(); total > 0 {
		meta = append(meta, fmt.Sprintf("☑ %d/%d", done, total))
	}
	if task.TimeSpent > 0 {
		meta = append(meta, formatSpent(task.TimeSpent))
	}
	b.WriteString(mutedStyle.Render(strings.Join(meta, " · ")))

	if session != nil && session.TaskID == task.ID {
		b.WriteString("\n" + focusStyle.Render(timerLine(*session)))
	}
	return b.String()
}

// renderTask prints every field of a task.
func renderTask(task domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)))
	fmt.Fprintf(&b, "Status:      %s\n", task.Status.Label())
	fmt.Fprintf(&b, "Effort:      %s\n", task.Effort)
	fmt.Fprintf(&b, "Complexity:  %s\n", task.Complexity)
	fmt.Fprintf(&b, "Time spent:  %s\n", formatSpent(task.TimeSpent))
	fmt.Fprintf(&b, "Created:     %s\n", task.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "Updated:     %s\n", task.UpdatedAt.Local().Format(time.DateTime))

	for _, link := range []struct {
		name string
		url  *string
	}{
		{"GitHub", task.GithubURL},
		{"Pipefy", task.PipefyURL},
		{"Notion", task.NotionURL},
	} {
		if link.url != nil {
			fmt.Fprintf(&b, "%-13s%s\n", link.name+":", ptr.ToString(link.url))
		}
	}

	if task.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", task.Description)
	}

	if len(task.Checklist) > 0 {
		done, total := task.ChecklistProgress()
		fmt.Fprintf(&b, "\nChecklist %d/%d\n", done, total)
		// Numbers are insertion positions, accepted by `check toggle` and `check rm`.
		for _, item := range task.OrderedChecklist() {
			pos := slices.IndexFunc(task.Checklist, func(c domain.ChecklistItem) bool { return c.ID == item.ID }) + 1
			mark := "[ ]"
			if item.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "  %d. %s %s\n", pos, mark, item.Text)
		}
	}
	return b.String()
}

// renderArchive lists archived tasks, most recently finished first.
func renderArchive(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("archive is empty") + "\n"
	}
	var b strings.Builder
	for _, task := range tasks {
		line := fmt.Sprintf("#%-5d %-40s %s", task.ID, task.Title, task.UpdatedAt.Local().Format(time.DateOnly))
		if done, total := task.ChecklistProgress(); total > 0 {
			line += fmt.Sprintf("  ☑ %d/%d", done, total)
		}
		if task.TimeSpent > 0 {
			line += "  " + formatSpent(task.TimeSpent)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// renderStatus describes the session and its task.
func renderStatus(session domain.PomodoroSession, task domain.Task) string {
	title := task.Title
	if task.ID == 0 {
		title = "(deleted task)"
	}
	return fmt.Sprintf("%s  #%d %s", timerLine(session), session.TaskID, title)
}

func timerLine(s domain.PomodoroSession) string {
	switch {
	case s.IsCompleted:
		return "✔ " + timer.FormatTime(0) + " done"
	case s.IsPaused:
		return "⏸ " + timer.FormatTime(s.RemainingTime) + " paused"
	default:
		return "▶ " + timer.FormatTime(s.RemainingTime)
	}
}

// formatSpent renders seconds as "1h 05m", "12m" or "40s".
func formatSpent(seconds int) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
