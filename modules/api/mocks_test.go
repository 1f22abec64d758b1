package api

import (
	"context"
	"errors"

	taskdomain "github.com/example/work-note/domain/task"
	domain "github.com/example/work-note/domain/user"
	"github.com/example/work-note/modules/auth"
	"github.com/example/work-note/modules/notification"
	"github.com/go-monolith/mono/pkg/types"
)

var errNotImplemented = errors.New("not implemented")

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any) {}
func (m *mockLogger) Warn(msg string, args ...any) {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) With(args ...any) types.Logger { return m }
func (m *mockLogger) WithError(err error) types.Logger { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	registerFunc       func(ctx context.Context, req auth.RegisterRequest) (*auth.UserResponse, error)
	loginFunc          func(ctx context.Context, email, password string) (*auth.SessionResponse, error)
	refreshFunc        func(ctx context.Context, refreshToken string) (*auth.SessionResponse, error)
	logoutFunc         func(ctx context.Context, claims *domain.Claims) error
	validateTokenFunc  func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFunc        func(ctx context.Context, userID string) (*auth.UserResponse, error)
	updateProfileFunc  func(ctx context.Context, userID, fullName string) (*auth.UserResponse, error)
	changePasswordFunc func(ctx context.Context, claims *domain.Claims, password string) error
}

func (m *mockAuthPort) Register(ctx context.Context, req auth.RegisterRequest) (*auth.UserResponse, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Login(ctx context.Context, email, password string) (*auth.SessionResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Refresh(ctx context.Context, refreshToken string) (*auth.SessionResponse, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) Logout(ctx context.Context, claims *domain.Claims) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, claims)
	}
	return errNotImplemented
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) GetUser(ctx context.Context, userID string) (*auth.UserResponse, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) UpdateProfile(ctx context.Context, userID, fullName string) (*auth.UserResponse, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, fullName)
	}
	return nil, errNotImplemented
}

func (m *mockAuthPort) ChangePassword(ctx context.Context, claims *domain.Claims, password string) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, claims, password)
	}
	return errNotImplemented
}

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	listFunc   func(ctx context.Context, ownerID string) ([]taskdomain.Task, error)
	createFunc func(ctx context.Context, ownerID string, draft taskdomain.Draft) (*taskdomain.Task, error)
	getFunc    func(ctx context.Context, ownerID, taskID string) (*taskdomain.Task, error)
	updateFunc func(ctx context.Context, ownerID, taskID string, patch taskdomain.Patch) (*taskdomain.Task, error)
	deleteFunc func(ctx context.Context, ownerID, taskID string) error
}

func (m *mockTaskPort) List(ctx context.Context, ownerID string) ([]taskdomain.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Create(ctx context.Context, ownerID string, draft taskdomain.Draft) (*taskdomain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, ownerID, draft)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Get(ctx context.Context, ownerID, taskID string) (*taskdomain.Task, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID, taskID)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Update(ctx context.Context, ownerID, taskID string, patch taskdomain.Patch) (*taskdomain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ownerID, taskID, patch)
	}
	return nil, errNotImplemented
}

func (m *mockTaskPort) Delete(ctx context.Context, ownerID, taskID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, taskID)
	}
	return errNotImplemented
}

type staticFeed map[string][]notification.Activity

func (f staticFeed) Recent(ownerID string) []notification.Activity {
	return f[ownerID]
}

// validAuth accepts "valid-token" as user-1.
func validAuth() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domain.Claims, error) {
			if token != "valid-token" {
				return nil, errors.New("token validation failed: invalid token")
			}
			return &domain.Claims{UserID: "user-1", Email: "ada@example.com", SessionID: "sess-1"}, nil
		},
	}
}
