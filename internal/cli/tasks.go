package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/work-note/domain/task"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"t"},
	Short:   "List and manage your tasks",
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks (filters: all, today, pending, completed, custom)",
	Args:    cobra.NoArgs,
	RunE: run(func(ctx context.Context, a *app, _ []string) error {
		filter, custom, err := viewFromFlags(listFilter, listDate)
		if err != nil {
			return err
		}
		if err := a.loadTasks(ctx); err != nil {
			return err
		}
		printView(a.out, a.store.View(filter, custom))
		return nil
	}),
}

var tasksAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft, err := draftFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		return run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.loadTasks(ctx); err != nil {
				return err
			}
			t, err := a.store.Create(ctx, draft)
			if err != nil {
				return err
			}
			printTask(a.out, *t)
			return nil
		})(cmd, args)
	},
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := patchFromFlags(cmd)
		if err != nil {
			return err
		}
		return run(func(ctx context.Context, a *app, args []string) error {
			if err := a.loadTasks(ctx); err != nil {
				return err
			}
			id, err := resolveID(a.store.Tasks(), args[0])
			if err != nil {
				return err
			}
			t, err := a.store.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			printTask(a.out, *t)
			return nil
		})(cmd, args)
	},
}

var tasksToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip a task between pending and completed",
	Args:  cobra.ExactArgs(1),
	RunE: run(func(ctx context.Context, a *app, args []string) error {
		if err := a.loadTasks(ctx); err != nil {
			return err
		}
		id, err := resolveID(a.store.Tasks(), args[0])
		if err != nil {
			return err
		}
		t, err := a.store.Toggle(ctx, id)
		if err != nil {
			return err
		}
		printTask(a.out, *t)
		return nil
	}),
}

var tasksRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: run(func(ctx context.Context, a *app, args []string) error {
		if err := a.loadTasks(ctx); err != nil {
			return err
		}
		id, err := resolveID(a.store.Tasks(), args[0])
		if err != nil {
			return err
		}
		if err := a.store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted %s\n", shortID(id))
		return nil
	}),
}

var (
	listFilter string
	listDate   string
)

func init() {
	tasksListCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "View to show")
	tasksListCmd.Flags().StringVar(&listDate, "date", "", "Due date for the custom view (YYYY-MM-DD); implies --filter custom")

	tasksAddCmd.Flags().String("description", "", "Description")
	tasksAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().String("priority", "", "Priority: low, medium or high")

	addEditFlags(tasksEditCmd)

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksEditCmd)
	tasksCmd.AddCommand(tasksToggleCmd)
	tasksCmd.AddCommand(tasksRemoveCmd)
}

func addEditFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("title", "", "New title")
	flags.String("description", "", "New description")
	flags.String("due", "", "New due date (YYYY-MM-DD)")
	flags.String("priority", "", "New priority: low, medium or high")
	flags.String("status", "", "New status: pending or completed")
	flags.Bool("clear-description", false, "Remove the description")
	flags.Bool("clear-due", false, "Remove the due date")
	flags.Bool("clear-priority", false, "Remove the priority")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	cmd.MarkFlagsMutuallyExclusive("priority", "clear-priority")
}

// viewFromFlags resolves --filter and --date. A date alone selects the
// custom view.
func viewFromFlags(filterName, date string) (task.Filter, *task.Date, error) {
	filter, err := task.ParseFilter(filterName)
	if err != nil {
		return "", nil, err
	}
	if date == "" {
		return filter, nil, nil
	}
	if filter != task.FilterAll && filter != task.FilterCustom {
		return "", nil, fmt.Errorf("--date only applies to the custom filter, not %q", filter)
	}
	d, err := task.ParseDate(date)
	if err != nil {
		return "", nil, err
	}
	return task.FilterCustom, &d, nil
}

func draftFromFlags(cmd *cobra.Command, title string) (task.Draft, error) {
	flags := cmd.Flags()
	draft := task.Draft{Title: title}

	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		draft.Description = &v
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		d, err := task.ParseDate(v)
		if err != nil {
			return draft, err
		}
		draft.DueDate = &d
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := task.ParsePriority(v)
		if err != nil {
			return draft, err
		}
		draft.Priority = &p
	}
	return draft, nil
}

var errNothingToEdit = errors.New("nothing to change: pass at least one field flag")

func patchFromFlags(cmd *cobra.Command) (task.Patch, error) {
	flags := cmd.Flags()
	var patch task.Patch

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}

	if drop, _ := flags.GetBool("clear-description"); drop {
		patch.Description = task.Null[string]()
	} else if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = task.Some(v)
	}

	if drop, _ := flags.GetBool("clear-due"); drop {
		patch.DueDate = task.Null[task.Date]()
	} else if flags.Changed("due") {
		v, _ := flags.GetString("due")
		d, err := task.ParseDate(v)
		if err != nil {
			return patch, err
		}
		patch.DueDate = task.Some(d)
	}

	if drop, _ := flags.GetBool("clear-priority"); drop {
		patch.Priority = task.Null[task.TaskPriority]()
	} else if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, err := task.ParsePriority(v)
		if err != nil {
			return patch, err
		}
		patch.Priority = task.Some(p)
	}

	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s := task.TaskStatus(v)
		if !s.Valid() {
			return patch, fmt.Errorf("%w: %q", task.ErrInvalidStatus, v)
		}
		patch.Status = &s
	}

	if patch.IsEmpty() {
		return patch, errNothingToEdit
	}
	return patch, nil
}
