package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/example/work-note/domain/task"
	"github.com/example/work-note/domain/user"
)

// fakeBackend is an in-memory Backend. Access tokens are "token-<user id>".
type fakeBackend struct {
	mu        sync.Mutex
	users     map[string]fakeUser // by email
	tasks     map[string][]task.Task
	seq       int
	calls     map[string]int
	failNext  map[string]error
	signedOut []string
}

type fakeUser struct {
	profile  user.Profile
	password string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    make(map[string]fakeUser),
		tasks:    make(map[string][]task.Task),
		calls:    make(map[string]int),
		failNext: make(map[string]error),
	}
}

// fail makes the next call to op return err.
func (f *fakeBackend) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = err
}

func (f *fakeBackend) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) enter(op string) error {
	f.calls[op]++
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *fakeBackend) owner(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "token-")
	if !ok || id == "" {
		return "", &APIError{Status: 401, Kind: "unauthorized"}
	}
	return id, nil
}

func (f *fakeBackend) identity(u fakeUser) *user.Identity {
	return &user.Identity{
		User: u.profile,
		Tokens: user.TokenPair{
			AccessToken:  "token-" + u.profile.ID,
			RefreshToken: "refresh-" + u.profile.Email,
			ExpiresIn:    900,
			TokenType:    "Bearer",
		},
	}
}

func (f *fakeBackend) SignUp(_ context.Context, email, password, fullName string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("signup"); err != nil {
		return nil, err
	}
	if _, ok := f.users[email]; ok {
		return nil, &APIError{Status: 409, Kind: "conflict", Message: "User with this email already exists"}
	}
	f.seq++
	u := fakeUser{
		profile:  user.Profile{ID: fmt.Sprintf("user-%d", f.seq), Email: email, FullName: fullName, CreatedAt: time.Now()},
		password: password,
	}
	f.users[email] = u
	p := u.profile
	return &p, nil
}

func (f *fakeBackend) SignIn(_ context.Context, email, password string) (*user.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("signin"); err != nil {
		return nil, err
	}
	u, ok := f.users[email]
	if !ok || u.password != password {
		return nil, &APIError{Status: 401, Kind: "unauthorized", Message: "Invalid email or password"}
	}
	return f.identity(u), nil
}

func (f *fakeBackend) Refresh(_ context.Context, refreshToken string) (*user.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("refresh"); err != nil {
		return nil, err
	}
	email, _ := strings.CutPrefix(refreshToken, "refresh-")
	u, ok := f.users[email]
	if !ok {
		return nil, &APIError{Status: 401, Kind: "unauthorized"}
	}
	return f.identity(u), nil
}

func (f *fakeBackend) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("signout"); err != nil {
		return err
	}
	f.signedOut = append(f.signedOut, accessToken)
	return nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, accessToken, fullName string) (*user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("profile"); err != nil {
		return nil, err
	}
	id, err := f.owner(accessToken)
	if err != nil {
		return nil, err
	}
	for email, u := range f.users {
		if u.profile.ID == id {
			u.profile.FullName = fullName
			f.users[email] = u
			p := u.profile
			return &p, nil
		}
	}
	return nil, &APIError{Status: 404, Kind: "not_found"}
}

func (f *fakeBackend) ChangePassword(_ context.Context, accessToken, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("password"); err != nil {
		return err
	}
	id, err := f.owner(accessToken)
	if err != nil {
		return err
	}
	for email, u := range f.users {
		if u.profile.ID == id {
			u.password = password
			f.users[email] = u
			return nil
		}
	}
	return &APIError{Status: 404, Kind: "not_found"}
}

func (f *fakeBackend) ListTasks(_ context.Context, accessToken string) ([]task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	owner, err := f.owner(accessToken)
	if err != nil {
		return nil, err
	}
	return append([]task.Task{}, f.tasks[owner]...), nil
}

func (f *fakeBackend) CreateTask(_ context.Context, accessToken string, draft task.Draft) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("create"); err != nil {
		return nil, err
	}
	owner, err := f.owner(accessToken)
	if err != nil {
		return nil, err
	}
	f.seq++
	now := time.Now()
	t := task.Task{
		ID:          fmt.Sprintf("task-%d", f.seq),
		OwnerID:     owner,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
		Status:      task.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[owner] = append([]task.Task{t}, f.tasks[owner]...)
	return &t, nil
}

func (f *fakeBackend) UpdateTask(_ context.Context, accessToken, id string, patch task.Patch) (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("update"); err != nil {
		return nil, err
	}
	owner, err := f.owner(accessToken)
	if err != nil {
		return nil, err
	}
	for i, t := range f.tasks[owner] {
		if t.ID == id {
			patch.ApplyTo(&t)
			t.UpdatedAt = time.Now()
			f.tasks[owner][i] = t
			return &t, nil
		}
	}
	return nil, &APIError{Status: 404, Kind: "not_found", Message: "Task not found"}
}

func (f *fakeBackend) DeleteTask(_ context.Context, accessToken, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("delete"); err != nil {
		return err
	}
	owner, err := f.owner(accessToken)
	if err != nil {
		return err
	}
	for i, t := range f.tasks[owner] {
		if t.ID == id {
			f.tasks[owner] = append(f.tasks[owner][:i], f.tasks[owner][i+1:]...)
			return nil
		}
	}
	return &APIError{Status: 404, Kind: "not_found", Message: "Task not found"}
}

// seedUser registers an account directly.
func (f *fakeBackend) seedUser(email, password, fullName string) {
	_, _ = f.SignUp(context.Background(), email, password, fullName)
}
