package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/work-note/client"
	"github.com/example/work-note/domain/task"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatTask renders one task on a single line:
//
//	[x] 1a2b3c4d  Buy milk  (due 2024-06-01, high)
func formatTask(t task.Task) string {
	var b strings.Builder
	if t.Status == task.StatusCompleted {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(shortID(t.ID))
	b.WriteString("  ")
	b.WriteString(t.Title)

	var meta []string
	if t.DueDate != nil {
		meta = append(meta, "due "+t.DueDate.String())
	}
	if t.Priority != nil {
		meta = append(meta, string(*t.Priority))
	}
	if len(meta) > 0 {
		b.WriteString("  (" + strings.Join(meta, ", ") + ")")
	}
	return b.String()
}

func printTask(w io.Writer, t task.Task) {
	fmt.Fprintln(w, formatTask(t))
	if t.Description != nil {
		fmt.Fprintf(w, "    %s\n", *t.Description)
	}
}

func printView(w io.Writer, v client.View) {
	fmt.Fprintln(w, v.Title)
	fmt.Fprintln(w, strings.Repeat("-", len(v.Title)))

	if len(v.Tasks) == 0 {
		switch {
		case v.Filter == task.FilterCustom && v.Title == task.FilterCustom.Title(nil):
			fmt.Fprintln(w, "Pick a date with --date YYYY-MM-DD")
		case v.Counts.Total == 0:
			fmt.Fprintln(w, "No tasks yet. Add one with `worknote tasks add TITLE`.")
		default:
			fmt.Fprintln(w, "No tasks in this view.")
		}
	}
	for _, t := range v.Tasks {
		printTask(w, t)
	}

	c := v.Counts
	fmt.Fprintln(w)
	fmt.Fprintf(w, "all %d | today %d | pending %d | completed %d | %d%% complete\n",
		c.Total, c.Today, c.Pending, c.Completed, c.CompletionRate())
}
