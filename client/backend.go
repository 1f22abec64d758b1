package client

import (
	"context"

	"github.com/example/work-note/domain/task"
	"github.com/example/work-note/domain/user"
)

// AuthBackend is the remote account service.
type AuthBackend interface {
	SignUp(ctx context.Context, email, password, fullName string) (*user.Profile, error)
	SignIn(ctx context.Context, email, password string) (*user.Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*user.Identity, error)
	SignOut(ctx context.Context, accessToken string) error
	UpdateProfile(ctx context.Context, accessToken, fullName string) (*user.Profile, error)
	ChangePassword(ctx context.Context, accessToken, password string) error
}

// TaskBackend is the remote task table. Every call is scoped to the owner of
// accessToken.
type TaskBackend interface {
	ListTasks(ctx context.Context, accessToken string) ([]task.Task, error)
	CreateTask(ctx context.Context, accessToken string, draft task.Draft) (*task.Task, error)
	UpdateTask(ctx context.Context, accessToken, id string, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, accessToken, id string) error
}

// Backend is the full remote service.
type Backend interface {
	AuthBackend
	TaskBackend
}
