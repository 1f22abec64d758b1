package task

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/example/work-note/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the task operations available to other modules.
type TaskPort interface {
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Create(ctx context.Context, ownerID string, draft domain.Draft) (*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch domain.Patch) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

var _ TaskPort = (*TaskAdapter)(nil)

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &TaskAdapter{container: container}
}

// serviceErrors are matched by message after a request-reply round trip.
var serviceErrors = []error{
	ErrTaskNotFound,
	ErrMissingOwner,
	domain.ErrEmptyTitle,
	domain.ErrInvalidStatus,
	domain.ErrInvalidPriority,
	domain.ErrEmptyPatch,
}

func translateError(service string, err error) error {
	msg := err.Error()
	for _, sentinel := range serviceErrors {
		if strings.Contains(msg, sentinel.Error()) {
			return fmt.Errorf("%s: %w", service, sentinel)
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}

func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return translateError(service, err)
	}
	return nil
}

// List returns the owner's tasks, newest first.
func (a *TaskAdapter) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	req := ListTasksRequest{OwnerID: ownerID}
	var resp ListTasksResponse
	if err := callService(ctx, a.container, "list-tasks", &req, &resp); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []domain.Task{}
	}
	return resp.Tasks, nil
}

// Create stores a new task for the owner.
func (a *TaskAdapter) Create(ctx context.Context, ownerID string, draft domain.Draft) (*domain.Task, error) {
	req := CreateTaskRequest{OwnerID: ownerID, Draft: draft}
	var resp domain.Task
	if err := callService(ctx, a.container, "create-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns one of the owner's tasks.
func (a *TaskAdapter) Get(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	req := GetTaskRequest{OwnerID: ownerID, TaskID: taskID}
	var resp domain.Task
	if err := callService(ctx, a.container, "get-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update applies a partial update to one of the owner's tasks.
func (a *TaskAdapter) Update(ctx context.Context, ownerID, taskID string, patch domain.Patch) (*domain.Task, error) {
	req := UpdateTaskRequest{OwnerID: ownerID, TaskID: taskID, Patch: patch}
	var resp domain.Task
	if err := callService(ctx, a.container, "update-task", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes one of the owner's tasks.
func (a *TaskAdapter) Delete(ctx context.Context, ownerID, taskID string) error {
	req := DeleteTaskRequest{OwnerID: ownerID, TaskID: taskID}
	var resp DeleteTaskResponse
	return callService(ctx, a.container, "delete-task", &req, &resp)
}
