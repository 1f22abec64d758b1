package task

import (
	"fmt"
	"math"
	"strings"
)

// Filter names a predicate used to build a task view.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
	FilterCustom    Filter = "custom"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterToday, FilterCompleted, FilterPending, FilterCustom}

// ParseFilter parses a filter name. An empty name means FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Matches reports whether t belongs to the view selected by f.
// today is the reference date for FilterToday; custom is the selected date
// for FilterCustom and yields no match when nil.
func (f Filter) Matches(t Task, today Date, custom *Date) bool {
	switch f {
	case FilterToday:
		return t.DueDate != nil && *t.DueDate == today
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterPending:
		return t.Status == StatusPending
	case FilterCustom:
		return custom != nil && t.DueDate != nil && *t.DueDate == *custom
	default:
		return true
	}
}

// Title returns the heading shown above a filtered view.
func (f Filter) Title(custom *Date) string {
	switch f {
	case FilterToday:
		return "Today's Tasks"
	case FilterCompleted:
		return "Completed Tasks"
	case FilterPending:
		return "Pending Tasks"
	case FilterCustom:
		if custom == nil {
			return "Select a Date"
		}
		return "Tasks for " + custom.Time().Format("January 2, 2006")
	default:
		return "All Tasks"
	}
}

// Apply returns the tasks matching f, in input order. The input is not
// modified.
func Apply(tasks []Task, f Filter, today Date, custom *Date) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t, today, custom) {
			out = append(out, t)
		}
	}
	return out
}

// Counts are per-category totals over an unfiltered task list.
type Counts struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Count computes Counts for tasks relative to today.
func Count(tasks []Task, today Date) Counts {
	c := Counts{Total: len(tasks)}
	for _, t := range tasks {
		if FilterToday.Matches(t, today, nil) {
			c.Today++
		}
		switch t.Status {
		case StatusPending:
			c.Pending++
		case StatusCompleted:
			c.Completed++
		}
	}
	return c
}

// CompletionRate is the rounded percentage of completed tasks, 0 when empty.
func (c Counts) CompletionRate() int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
}

// For returns the count shown next to filter f. Custom has no count.
func (c Counts) For(f Filter) (int, bool) {
	switch f {
	case FilterAll:
		return c.Total, true
	case FilterToday:
		return c.Today, true
	case FilterPending:
		return c.Pending, true
	case FilterCompleted:
		return c.Completed, true
	}
	return 0, false
}
