package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/work-note/domain/task"
	"github.com/example/work-note/domain/user"
	"github.com/example/work-note/modules/auth"
	tasksvc "github.com/example/work-note/modules/task"
	"github.com/gofiber/fiber/v2"
)

// HTTPBackend talks to the Work-Note REST API with Fiber's HTTP client.
type HTTPBackend struct {
	baseURL string
	timeout time.Duration
}

var _ Backend = (*HTTPBackend)(nil)

// NewHTTPBackend creates a backend for the server at baseURL. A zero timeout
// means no per-request limit beyond the caller's context.
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		timeout: timeout,
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request. body and out may be nil.
func (b *HTTPBackend) do(ctx context.Context, method, path, token string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	endpoint := b.baseURL + path
	var a *fiber.Agent
	switch method {
	case http.MethodGet:
		a = fiber.Get(endpoint)
	case http.MethodPost:
		a = fiber.Post(endpoint)
	case http.MethodPut:
		a = fiber.Put(endpoint)
	case http.MethodPatch:
		a = fiber.Patch(endpoint)
	case http.MethodDelete:
		a = fiber.Delete(endpoint)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}

	if timeout := b.requestTimeout(ctx); timeout > 0 {
		a.Timeout(timeout)
	}
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}

	code, data, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	if code < 200 || code > 299 {
		apiErr := &APIError{Status: code, Kind: "internal_error"}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			apiErr.Kind = eb.Error
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (b *HTTPBackend) requestTimeout(ctx context.Context) time.Duration {
	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func (b *HTTPBackend) SignUp(ctx context.Context, email, password, fullName string) (*user.Profile, error) {
	req := map[string]string{"email": email, "password": password, "full_name": fullName}
	var resp auth.UserResponse
	if err := b.do(ctx, http.MethodPost, "/auth/signup", "", req, &resp); err != nil {
		return nil, err
	}
	profile := resp.Profile()
	return &profile, nil
}

func (b *HTTPBackend) SignIn(ctx context.Context, email, password string) (*user.Identity, error) {
	req := map[string]string{"email": email, "password": password}
	var resp auth.SessionResponse
	if err := b.do(ctx, http.MethodPost, "/auth/signin", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.Identity(), nil
}

func (b *HTTPBackend) Refresh(ctx context.Context, refreshToken string) (*user.Identity, error) {
	req := map[string]string{"refresh_token": refreshToken}
	var resp auth.SessionResponse
	if err := b.do(ctx, http.MethodPost, "/auth/refresh", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.Identity(), nil
}

func (b *HTTPBackend) SignOut(ctx context.Context, accessToken string) error {
	return b.do(ctx, http.MethodPost, "/auth/signout", accessToken, nil, nil)
}

func (b *HTTPBackend) UpdateProfile(ctx context.Context, accessToken, fullName string) (*user.Profile, error) {
	req := map[string]string{"full_name": fullName}
	var resp auth.UserResponse
	if err := b.do(ctx, http.MethodPatch, "/profile", accessToken, req, &resp); err != nil {
		return nil, err
	}
	profile := resp.Profile()
	return &profile, nil
}

func (b *HTTPBackend) ChangePassword(ctx context.Context, accessToken, password string) error {
	req := map[string]string{"password": password}
	return b.do(ctx, http.MethodPut, "/profile/password", accessToken, req, nil)
}

func (b *HTTPBackend) ListTasks(ctx context.Context, accessToken string) ([]task.Task, error) {
	var resp tasksvc.ListTasksResponse
	if err := b.do(ctx, http.MethodGet, "/tasks", accessToken, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		resp.Tasks = []task.Task{}
	}
	return resp.Tasks, nil
}

func (b *HTTPBackend) CreateTask(ctx context.Context, accessToken string, draft task.Draft) (*task.Task, error) {
	var resp task.Task
	if err := b.do(ctx, http.MethodPost, "/tasks", accessToken, draft, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *HTTPBackend) UpdateTask(ctx context.Context, accessToken, id string, patch task.Patch) (*task.Task, error) {
	var resp task.Task
	if err := b.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), accessToken, patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *HTTPBackend) DeleteTask(ctx context.Context, accessToken, id string) error {
	return b.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), accessToken, nil, nil)
}
