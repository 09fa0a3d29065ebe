package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezkam/focusboard/internal/domain"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, edit and move tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskEditCmd(a),
		newTaskShowCmd(a),
		newTaskMoveCmd(a),
		newTaskDoneCmd(a),
		newTaskDeleteCmd(a),
		newTaskReorderCmd(a),
		newTaskRestoreCmd(a),
	)
	return cmd
}

func newTaskAddCmd(a *app) *cobra.Command {
	var (
		params domain.NewTaskParams
		id     int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. It lands in To Do unless --status says otherwise.
Creating into Row or Doing bumps the current occupant like a move does,
and creating into Done files the task straight into the archive.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}

			params.ID = id
			if params.ID == 0 {
				params.ID = nextTaskID(a.board.Tasks(ctx))
			}
			params.Title = strings.Join(args, " ")

			task, err := a.board.CreateTask(ctx, params)
			if err != nil && task.ID == 0 {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s in %s\n", task.ID, task.Title, task.Status.Label())
			return writeErr(cmd, err)
		},
	}

	f := cmd.Flags()
	f.IntVar(&id, "id", 0, "task id (default: highest id + 1)")
	f.StringVarP(&params.Description, "desc", "d", "", "description")
	f.StringArrayVarP(&params.Checklist, "check", "c", nil, "checklist item (repeatable)")
	f.StringVarP(&params.Effort, "effort", "e", "", "effort: XS, S, M, L, XL (default M)")
	f.StringVarP(&params.Complexity, "complexity", "x", "", "complexity: Easy, Medium, Hard (default Medium)")
	f.StringVarP(&params.Status, "status", "s", "", "column: todo, row, doing, done (default todo)")
	f.StringVar(&params.GithubURL, "github", "", "GitHub link")
	f.StringVar(&params.PipefyURL, "pipefy", "", "Pipefy link")
	f.StringVar(&params.NotionURL, "notion", "", "Notion link")
	return cmd
}

// nextTaskID returns one past the highest id in use.
func nextTaskID(tasks []domain.Task) int {
	next := 1
	for _, t := range tasks {
		next = max(next, t.ID+1)
	}
	return next
}

func newTaskEditCmd(a *app) *cobra.Command {
	var (
		title, description, effort, complexity string
		github, pipefy, notion                 string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change task fields; only the flags given are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			params := domain.UpdateTaskParams{ID: id}
			flags := cmd.Flags()
			optional := func(flag, field, value string, dst **string) {
				if flags.Changed(flag) {
					params.UpdateMask = append(params.UpdateMask, field)
					*dst = &value
				}
			}
			optional("title", domain.FieldTitle, title, &params.Title)
			optional("desc", domain.FieldDescription, description, &params.Description)
			optional("github", domain.FieldGithubURL, github, &params.GithubURL)
			optional("pipefy", domain.FieldPipefyURL, pipefy, &params.PipefyURL)
			optional("notion", domain.FieldNotionURL, notion, &params.NotionURL)
			if flags.Changed("effort") {
				e, err := domain.NewEffort(effort)
				if err != nil {
					return err
				}
				params.UpdateMask = append(params.UpdateMask, domain.FieldEffort)
				params.Effort = &e
			}
			if flags.Changed("complexity") {
				c, err := domain.NewComplexity(complexity)
				if err != nil {
					return err
				}
				params.UpdateMask = append(params.UpdateMask, domain.FieldComplexity)
				params.Complexity = &c
			}

			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}
			task, err := a.board.UpdateTask(ctx, params)
			if err != nil && task.ID == 0 {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated #%d %s\n", task.ID, task.Title)
			return writeErr(cmd, err)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&title, "title", "t", "", "new title")
	f.StringVarP(&description, "desc", "d", "", "new description")
	f.StringVarP(&effort, "effort", "e", "", "effort: XS, S, M, L, XL")
	f.StringVarP(&complexity, "complexity", "x", "", "complexity: Easy, Medium, Hard")
	f.StringVar(&github, "github", "", "GitHub link (empty clears it)")
	f.StringVar(&pipefy, "pipefy", "", "Pipefy link (empty clears it)")
	f.StringVar(&notion, "notion", "", "Notion link (empty clears it)")
	return cmd
}

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}
			task, err := a.board.Task(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTask(task))
			return nil
		},
	}
}

func newTaskMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <todo|row|doing|done>",
		Short: "Move a task to another column",
		Long: `Move a task to another column. Doing and Row hold one task each and
bump their occupant down the chain. Moving to done requires a complete
checklist and credits a running timer first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.NewTaskStatus(args[1])
			if err != nil {
				return err
			}
			if status == domain.TaskStatusArchived {
				return fmt.Errorf("%w: use `task done` to archive", domain.ErrInvalidTaskStatus)
			}

			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			result, err := coordinator.MoveTask(ctx, id, status)
			if err != nil && result.Task.ID == 0 {
				return err
			}
			printMove(cmd, result.Task, result.Displaced)
			return writeErr(cmd, err)
		},
	}
}

func newTaskDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task and move it to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			result, err := coordinator.CompleteTask(ctx, id)
			if err != nil && result.Task.ID == 0 {
				return err
			}
			printMove(cmd, result.Task, result.Displaced)
			return writeErr(cmd, err)
		},
	}
}

func printMove(cmd *cobra.Command, task domain.Task, displaced []domain.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "#%d %s → %s\n", task.ID, task.Title, task.Status.Label())
	for _, d := range displaced {
		fmt.Fprintf(out, "  bumped #%d %s → %s\n", d.ID, d.Title, d.Status.Label())
	}
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task; a timer running on it is stopped",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			coordinator, err := a.Open(ctx)
			if err != nil {
				return err
			}
			task, err := coordinator.DeleteTask(ctx, id)
			if err != nil && task.ID == 0 {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d %s\n", task.ID, task.Title)
			return writeErr(cmd, err)
		},
	}
}

func newTaskReorderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id> <position>",
		Short: "Move a task to a 1-based position within its column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			position, err := parseID(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}
			column, err := a.board.ReorderWithinColumn(ctx, id, position-1)
			if err != nil && column == nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, t := range column {
				fmt.Fprintf(out, "%d. #%d %s\n", i+1, t.ID, t.Title)
			}
			return writeErr(cmd, err)
		},
	}
}

func newTaskRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Bring an archived task back to To Do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}
			task, err := a.board.RestoreTask(ctx, id)
			if err != nil && task.ID == 0 {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored #%d %s to %s\n", task.ID, task.Title, task.Status.Label())
			return writeErr(cmd, err)
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Manage a task's checklist",
	}

	add := &cobra.Command{
		Use:   "add <id> <text>",
		Short: "Append a checklist item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.Open(ctx); err != nil {
				return err
			}
			item, err := a.board.AddChecklistItem(ctx, id, strings.Join(args[1:], " "))
			if err != nil && item.ID == "" {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q to #%d\n", item.Text, id)
			return writeErr(cmd, err)
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <id> <item>",
		Short: "Flip an item; <item> is its id or its 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editChecklist(cmd, a, args, false)
		},
	}

	remove := &cobra.Command{
		Use:     "rm <id> <item>",
		Aliases: []string{"remove"},
		Short:   "Remove an item; <item> is its id or its 1-based position",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editChecklist(cmd, a, args, true)
		},
	}

	cmd.AddCommand(add, toggle, remove)
	return cmd
}

func editChecklist(cmd *cobra.Command, a *app, args []string, remove bool) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if _, err := a.Open(ctx); err != nil {
		return err
	}

	var task domain.Task
	if remove {
		task, err = a.board.RemoveChecklistItem(ctx, id, args[1])
	} else {
		task, err = a.board.ToggleChecklistItem(ctx, id, args[1])
	}
	if err != nil && task.ID == 0 {
		return err
	}

	done, total := task.ChecklistProgress()
	fmt.Fprintf(cmd.OutOrStdout(), "#%d checklist %d/%d\n", task.ID, done, total)
	for i, item := range task.Checklist {
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s %s\n", i+1, mark, item.Text)
	}
	return writeErr(cmd, err)
}
