package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestTaskStatus_ToggledTwiceRestores(t *testing.T) {
	for _, s := range []TaskStatus{StatusPending, StatusCompleted} {
		if got := s.Toggled().Toggled(); got != s {
			t.Errorf("%s toggled twice = %s", s, got)
		}
		if s.Toggled() == s {
			t.Errorf("%s toggled once should change", s)
		}
	}
}

func TestDraft_Normalize(t *testing.T) {
	bogus := TaskPriority("urgent")
	tests := []struct {
		name     string
		draft    Draft
		wantErr  error
		wantDesc *string
	}{
		{name: "trims title", draft: Draft{Title: "  Buy milk  "}},
		{name: "empty title", draft: Draft{Title: ""}, wantErr: ErrEmptyTitle},
		{name: "whitespace title", draft: Draft{Title: " \t\n"}, wantErr: ErrEmptyTitle},
		{name: "blank description dropped", draft: Draft{Title: "a", Description: strPtr("   ")}},
		{name: "description trimmed", draft: Draft{Title: "a", Description: strPtr(" 2%, 1L ")}, wantDesc: strPtr("2%, 1L")},
		{name: "unknown priority", draft: Draft{Title: "a", Priority: &bogus}, wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.draft.Normalize()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got.Title != "Buy milk" && got.Title != "a" {
				t.Errorf("Title = %q", got.Title)
			}
			switch {
			case tt.wantDesc == nil && got.Description != nil:
				t.Errorf("Description = %q, want nil", *got.Description)
			case tt.wantDesc != nil && (got.Description == nil || *got.Description != *tt.wantDesc):
				t.Errorf("Description = %v, want %q", got.Description, *tt.wantDesc)
			}
		})
	}
}

func TestPatch_Normalize(t *testing.T) {
	bad := TaskStatus("archived")
	tests := []struct {
		name    string
		patch   Patch
		wantErr error
	}{
		{name: "empty patch", patch: Patch{}, wantErr: ErrEmptyPatch},
		{name: "blank title", patch: Patch{Title: strPtr("  ")}, wantErr: ErrEmptyTitle},
		{name: "bad status", patch: Patch{Status: &bad}, wantErr: ErrInvalidStatus},
		{name: "bad priority", patch: Patch{Priority: Some(TaskPriority("p0"))}, wantErr: ErrInvalidPriority},
		{name: "clear priority", patch: Patch{Priority: Null[TaskPriority]()}},
		{name: "title only", patch: Patch{Title: strPtr("Ship it")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.patch.Normalize()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Normalize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPatch_ApplyTo(t *testing.T) {
	due := Date{Year: 2024, Month: time.June, Day: 1}
	high := PriorityHigh
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tk := Task{
		ID:          "t-1",
		OwnerID:     "u-1",
		Title:       "Old",
		Description: strPtr("keep me"),
		DueDate:     &due,
		Priority:    &high,
		Status:      StatusPending,
		CreatedAt:   created,
	}

	done := StatusCompleted
	Patch{Title: strPtr("New"), Priority: Null[TaskPriority](), Status: &done}.ApplyTo(&tk)

	if tk.ID != "t-1" || tk.OwnerID != "u-1" || !tk.CreatedAt.Equal(created) {
		t.Errorf("immutable fields changed: %+v", tk)
	}
	if tk.Title != "New" {
		t.Errorf("Title = %q, want New", tk.Title)
	}
	if tk.Description == nil || *tk.Description != "keep me" {
		t.Errorf("Description changed: %v", tk.Description)
	}
	if tk.DueDate == nil || *tk.DueDate != due {
		t.Errorf("DueDate changed: %v", tk.DueDate)
	}
	if tk.Priority != nil {
		t.Errorf("Priority = %v, want nil", *tk.Priority)
	}
	if tk.Status != StatusCompleted {
		t.Errorf("Status = %s, want completed", tk.Status)
	}
}

func TestPatch_JSONTriState(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantNil bool
	}{
		{name: "absent", body: `{"title":"x"}`, wantSet: false, wantNil: true},
		{name: "null", body: `{"due_date":null}`, wantSet: true, wantNil: true},
		{name: "value", body: `{"due_date":"2024-06-01"}`, wantSet: true, wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.DueDate.Set != tt.wantSet {
				t.Errorf("DueDate.Set = %v, want %v", p.DueDate.Set, tt.wantSet)
			}
			if (p.DueDate.Value == nil) != tt.wantNil {
				t.Errorf("DueDate.Value = %v, want nil=%v", p.DueDate.Value, tt.wantNil)
			}
		})
	}
}

func TestPatch_MarshalOmitsAbsentFields(t *testing.T) {
	data, err := json.Marshal(Patch{DueDate: Null[Date](), Title: strPtr("x")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"title":"x","due_date":null}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestDate_JSON(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(`{"id":"1","due_date":"2024-02-29"}`), &tk); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if tk.DueDate == nil || tk.DueDate.String() != "2024-02-29" {
		t.Fatalf("DueDate = %v, want 2024-02-29", tk.DueDate)
	}

	if err := json.Unmarshal([]byte(`{"due_date":"2024-02-30"}`), &tk); err == nil {
		t.Error("expected error for invalid date")
	}

	var empty Task
	if err := json.Unmarshal([]byte(`{"due_date":null}`), &empty); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if empty.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", empty.DueDate)
	}
}

func TestDate_Scan(t *testing.T) {
	want := Date{Year: 2024, Month: time.June, Day: 1}
	inputs := []any{
		"2024-06-01",
		[]byte("2024-06-01"),
		"2024-06-01 00:00:00+00:00",
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, in := range inputs {
		var d Date
		if err := d.Scan(in); err != nil {
			t.Errorf("Scan(%v) error = %v", in, err)
			continue
		}
		if d != want {
			t.Errorf("Scan(%v) = %v, want %v", in, d, want)
		}
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
