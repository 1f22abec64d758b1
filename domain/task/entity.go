package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = errors.New("title is required")
	// ErrInvalidStatus is returned for a status outside pending/completed.
	ErrInvalidStatus = errors.New("status must be pending or completed")
	// ErrInvalidPriority is returned for a priority outside low/medium/high.
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	// ErrEmptyPatch is returned when an update carries no fields.
	ErrEmptyPatch = errors.New("no fields to update")
)

// TaskStatus represents the state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// TaskPriority is the optional importance of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          string        `gorm:"primaryKey;type:text" json:"id"`
	OwnerID     string        `gorm:"type:text;not null;index:idx_tasks_owner_created,priority:1" json:"user_id"`
	Title       string        `gorm:"not null" json:"title"`
	Description *string       `json:"description"`
	DueDate     *Date         `gorm:"type:text" json:"due_date"`
	Priority    *TaskPriority `gorm:"type:text" json:"priority"`
	Status      TaskStatus    `gorm:"type:text;not null;default:pending" json:"status"`
	CreatedAt   time.Time     `gorm:"index:idx_tasks_owner_created,priority:2" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Task) TableName() string {
	return "tasks"
}

// Draft is the input for creating a task.
type Draft struct {
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	DueDate     *Date         `json:"due_date,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
}

// Normalize trims the title and description and validates the draft.
// An all-whitespace description is dropped.
func (d Draft) Normalize() (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return d, ErrEmptyTitle
	}
	d.Description = trimOptional(d.Description)
	if d.Priority != nil && !d.Priority.Valid() {
		return d, ErrInvalidPriority
	}
	return d, nil
}

// Patch is a partial update. Nil pointers and unset Nullables are left
// untouched; a set Nullable with a nil Value clears the field.
type Patch struct {
	Title       *string                `json:"title,omitempty"`
	Description Nullable[string]       `json:"description,omitzero"`
	DueDate     Nullable[Date]         `json:"due_date,omitzero"`
	Priority    Nullable[TaskPriority] `json:"priority,omitzero"`
	Status      *TaskStatus            `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && !p.Description.Set && !p.DueDate.Set && !p.Priority.Set && p.Status == nil
}

// Normalize trims text fields and validates the patch.
func (p Patch) Normalize() (Patch, error) {
	if p.IsEmpty() {
		return p, ErrEmptyPatch
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return p, ErrEmptyTitle
		}
		p.Title = &title
	}
	if p.Description.Set {
		p.Description.Value = trimOptional(p.Description.Value)
	}
	if p.Priority.Value != nil && !p.Priority.Value.Valid() {
		return p, ErrInvalidPriority
	}
	if p.Status != nil && !p.Status.Valid() {
		return p, ErrInvalidStatus
	}
	return p, nil
}

// ApplyTo writes the patch fields onto t. ID, OwnerID and CreatedAt are never
// touched.
func (p Patch) ApplyTo(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.Priority.Set {
		t.Priority = p.Priority.Value
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
