package cli

import (
	"errors"
	"testing"

	"github.com/example/work-note/client"
	"github.com/example/work-note/domain/task"
	"github.com/spf13/cobra"
)

func newEditCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "edit"}
	addEditFlags(cmd)
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return cmd
}

func TestPatchFromFlags(t *testing.T) {
	t.Run("only changed flags are set", func(t *testing.T) {
		patch, err := patchFromFlags(newEditCmd(t, "--title", "Call mom", "--priority", "HIGH"))
		if err != nil {
			t.Fatalf("patchFromFlags failed: %v", err)
		}
		if patch.Title == nil || *patch.Title != "Call mom" {
			t.Errorf("Title = %v", patch.Title)
		}
		if !patch.Priority.Set || *patch.Priority.Value != task.PriorityHigh {
			t.Errorf("Priority = %+v", patch.Priority)
		}
		if patch.Description.Set || patch.DueDate.Set || patch.Status != nil {
			t.Errorf("unexpected fields in %+v", patch)
		}
	})

	t.Run("clear flags send null", func(t *testing.T) {
		patch, err := patchFromFlags(newEditCmd(t, "--clear-due", "--clear-description", "--clear-priority"))
		if err != nil {
			t.Fatalf("patchFromFlags failed: %v", err)
		}
		for name, f := range map[string]bool{
			"due":         patch.DueDate.Set && patch.DueDate.Value == nil,
			"description": patch.Description.Set && patch.Description.Value == nil,
			"priority":    patch.Priority.Set && patch.Priority.Value == nil,
		} {
			if !f {
				t.Errorf("%s was not cleared", name)
			}
		}
	})

	t.Run("due date and status", func(t *testing.T) {
		patch, err := patchFromFlags(newEditCmd(t, "--due", "2024-06-10", "--status", "completed"))
		if err != nil {
			t.Fatalf("patchFromFlags failed: %v", err)
		}
		want := task.Date{Year: 2024, Month: 6, Day: 10}
		if !patch.DueDate.Set || *patch.DueDate.Value != want {
			t.Errorf("DueDate = %+v", patch.DueDate)
		}
		if patch.Status == nil || *patch.Status != task.StatusCompleted {
			t.Errorf("Status = %v", patch.Status)
		}
	})

	errorCases := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"nothing", nil, errNothingToEdit},
		{"bad priority", []string{"--priority", "urgent"}, task.ErrInvalidPriority},
		{"bad status", []string{"--status", "done"}, task.ErrInvalidStatus},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := patchFromFlags(newEditCmd(t, tc.args...)); !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}

	t.Run("bad date", func(t *testing.T) {
		if _, err := patchFromFlags(newEditCmd(t, "--due", "06/10/2024")); err == nil {
			t.Error("Expected error for malformed date")
		}
	})
}

func TestDraftFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "add"}
	cmd.Flags().String("description", "", "")
	cmd.Flags().String("due", "", "")
	cmd.Flags().String("priority", "", "")
	if err := cmd.Flags().Parse([]string{"--due", "2024-06-01", "--priority", "low"}); err != nil {
		t.Fatal(err)
	}

	draft, err := draftFromFlags(cmd, "Buy milk")
	if err != nil {
		t.Fatalf("draftFromFlags failed: %v", err)
	}
	if draft.Title != "Buy milk" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.Description != nil {
		t.Errorf("Description = %q, want unset", *draft.Description)
	}
	if draft.DueDate == nil || draft.DueDate.String() != "2024-06-01" {
		t.Errorf("DueDate = %v", draft.DueDate)
	}
	if draft.Priority == nil || *draft.Priority != task.PriorityLow {
		t.Errorf("Priority = %v", draft.Priority)
	}
}

func TestViewFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		date       string
		wantFilter task.Filter
		wantDate   bool
		wantErr    bool
	}{
		{name: "default", filter: "all", wantFilter: task.FilterAll},
		{name: "today", filter: "Today", wantFilter: task.FilterToday},
		{name: "date implies custom", filter: "all", date: "2024-06-10", wantFilter: task.FilterCustom, wantDate: true},
		{name: "custom without date", filter: "custom", wantFilter: task.FilterCustom},
		{name: "date with pending", filter: "pending", date: "2024-06-10", wantErr: true},
		{name: "unknown filter", filter: "overdue", wantErr: true},
		{name: "bad date", filter: "custom", date: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, date, err := viewFromFlags(tt.filter, tt.date)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("viewFromFlags failed: %v", err)
			}
			if filter != tt.wantFilter {
				t.Errorf("filter = %q, want %q", filter, tt.wantFilter)
			}
			if (date != nil) != tt.wantDate {
				t.Errorf("date = %v, want set=%v", date, tt.wantDate)
			}
		})
	}
}

func TestResolveID(t *testing.T) {
	tasks := []task.Task{
		{ID: "1a2b3c4d-0000"},
		{ID: "1a2b9999-0000"},
		{ID: "ffff0000-0000"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{ref: "ffff0000-0000", want: "ffff0000-0000"},
		{ref: "ffff", want: "ffff0000-0000"},
		{ref: "1a2b3c", want: "1a2b3c4d-0000"},
		{ref: "1a2b", wantErr: errAmbiguousID},
		{ref: "fff", wantErr: client.ErrNotFound},
		{ref: "eeee", wantErr: client.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveID(tasks, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveID failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveID = %q, want %q", got, tt.want)
			}
		})
	}
}
