package task

import (
	domain "github.com/example/work-note/domain/task"
)

// ListTasksRequest asks for every task of an owner.
type ListTasksRequest struct {
	OwnerID string `json:"user_id"`
}

// ListTasksResponse represents a task list response.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
	Total int           `json:"total"`
}

// CreateTaskRequest represents a create task request.
type CreateTaskRequest struct {
	OwnerID string       `json:"user_id"`
	Draft   domain.Draft `json:"draft"`
}

// GetTaskRequest represents a get task request.
type GetTaskRequest struct {
	OwnerID string `json:"user_id"`
	TaskID  string `json:"task_id"`
}

// UpdateTaskRequest represents an update task request.
type UpdateTaskRequest struct {
	OwnerID string       `json:"user_id"`
	TaskID  string       `json:"task_id"`
	Patch   domain.Patch `json:"patch"`
}

// DeleteTaskRequest represents a delete task request.
type DeleteTaskRequest struct {
	OwnerID string `json:"user_id"`
	TaskID  string `json:"task_id"`
}

// DeleteTaskResponse represents a delete task response.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}
