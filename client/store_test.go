package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/work-note/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFixture struct {
	backend *fakeBackend
	session *Session
	store   *Store
	rec     *Recorder
}

// newSignedInStore signs in before building the store so no async reload is
// in flight.
func newSignedInStore(t *testing.T, opts ...Option) storeFixture {
	t.Helper()
	backend := newFakeBackend()
	backend.seedUser("ada@example.com", "secret1", "Ada")
	session := NewSession(backend, &MemoryCredentials{})
	_, err := session.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	rec := &Recorder{}
	store := NewStore(session, backend, append([]Option{WithNotifier(rec)}, opts...)...)
	t.Cleanup(store.Close)
	require.NoError(t, store.Refresh(context.Background()))
	return storeFixture{backend: backend, session: session, store: store, rec: rec}
}

func TestStore_CreateOnEmptyList(t *testing.T) {
	f := newSignedInStore(t)

	created, err := f.store.Create(context.Background(), task.Draft{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, task.StatusPending, created.Status)

	counts := f.store.Counts()
	assert.Equal(t, 1, counts.Total)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 0, counts.Completed)

	last, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Task created", last.Message)
}

func TestStore_ToggleTwice(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	created, err := f.store.Create(ctx, task.Draft{Title: "Walk the dog"})
	require.NoError(t, err)

	once, err := f.store.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, once.Status)
	assert.Equal(t, task.StatusCompleted, f.store.Tasks()[0].Status)

	twice, err := f.store.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, twice.Status)
	assert.Equal(t, task.StatusPending, f.store.Tasks()[0].Status)
}

func TestStore_CreateNoOps(t *testing.T) {
	f := newSignedInStore(t)

	_, err := f.store.Create(context.Background(), task.Draft{Title: "   "})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
	assert.Equal(t, 0, f.backend.callCount("create"))
	assert.Empty(t, f.store.Tasks())

	signedOut := NewStore(NewSession(f.backend, nil), f.backend)
	defer signedOut.Close()
	_, err = signedOut.Create(context.Background(), task.Draft{Title: "x"})
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Equal(t, 0, f.backend.callCount("create"))
}

func TestStore_CreateKeepsNewestFirst(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, task.Draft{Title: "first"})
	require.NoError(t, err)
	_, err = f.store.Create(ctx, task.Draft{Title: "second"})
	require.NoError(t, err)

	tasks := f.store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title)
	assert.Equal(t, "first", tasks[1].Title)
}

func TestStore_DefaultPriority(t *testing.T) {
	ctx := context.Background()
	high := task.PriorityHigh

	tests := []struct {
		name  string
		opts  []Option
		draft task.Draft
		want  *task.TaskPriority
	}{
		{name: "defaults to medium", draft: task.Draft{Title: "x"}, want: ptr(task.PriorityMedium)},
		{name: "explicit wins", draft: task.Draft{Title: "x", Priority: &high}, want: &high},
		{name: "configured default", opts: []Option{WithDefaultPriority(task.PriorityLow)}, draft: task.Draft{Title: "x"}, want: ptr(task.PriorityLow)},
		{name: "disabled", opts: []Option{WithoutPriority()}, draft: task.Draft{Title: "x", Priority: &high}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSignedInStore(t, tt.opts...)
			created, err := f.store.Create(ctx, tt.draft)
			require.NoError(t, err)
			assert.Equal(t, tt.want, created.Priority)
		})
	}
}

func TestStore_WithoutPriorityDropsPriorityPatch(t *testing.T) {
	f := newSignedInStore(t, WithoutPriority())
	ctx := context.Background()

	created, err := f.store.Create(ctx, task.Draft{Title: "x"})
	require.NoError(t, err)

	_, err = f.store.Update(ctx, created.ID, task.Patch{Priority: task.Some(task.PriorityHigh)})
	assert.ErrorIs(t, err, task.ErrEmptyPatch)
	assert.Equal(t, 0, f.backend.callCount("update"))
}

func TestStore_ClearDueDate(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	due, err := task.ParseDate("2024-06-10")
	require.NoError(t, err)
	created, err := f.store.Create(ctx, task.Draft{Title: "Dentist", DueDate: &due})
	require.NoError(t, err)

	view := f.store.View(task.FilterCustom, &due)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "Tasks for June 10, 2024", view.Title)

	updated, err := f.store.Update(ctx, created.ID, task.Patch{DueDate: task.Null[task.Date]()})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	view = f.store.View(task.FilterCustom, &due)
	assert.Empty(t, view.Tasks)
	assert.Equal(t, 1, view.Counts.Total)
}

func TestStore_FailureLeavesStateUnchanged(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	created, err := f.store.Create(ctx, task.Draft{Title: "keep me"})
	require.NoError(t, err)
	before := f.store.Tasks()

	f.backend.fail("create", errors.New("timeout"))
	_, err = f.store.Create(ctx, task.Draft{Title: "lost"})
	require.Error(t, err)
	assert.Equal(t, before, f.store.Tasks())
	last, _ := f.rec.Last()
	assert.Equal(t, "error", last.Level)

	title := "renamed"
	f.backend.fail("update", errors.New("timeout"))
	_, err = f.store.Update(ctx, created.ID, task.Patch{Title: &title})
	require.Error(t, err)
	assert.Equal(t, before, f.store.Tasks())

	f.backend.fail("delete", errors.New("timeout"))
	require.Error(t, f.store.Delete(ctx, created.ID))
	assert.Equal(t, before, f.store.Tasks())
}

func TestStore_DeleteUnknownID(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, task.Draft{Title: "keep me"})
	require.NoError(t, err)
	before := f.store.Tasks()

	err = f.store.Delete(ctx, "no-such-task")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, f.store.Tasks())

	toggled, err := f.store.Toggle(ctx, "no-such-task")
	assert.NoError(t, err)
	assert.Nil(t, toggled)
	assert.Equal(t, 0, f.backend.callCount("update"))
}

func TestStore_Delete(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	a, _ := f.store.Create(ctx, task.Draft{Title: "a"})
	b, _ := f.store.Create(ctx, task.Draft{Title: "b"})

	require.NoError(t, f.store.Delete(ctx, a.ID))
	tasks := f.store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
}

func TestStore_RefreshFailureEmptiesList(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, task.Draft{Title: "x"})
	require.NoError(t, err)

	f.backend.fail("list", errors.New("connection reset"))
	require.Error(t, f.store.Refresh(ctx))
	assert.Empty(t, f.store.Tasks())
	last, _ := f.rec.Last()
	assert.Equal(t, "Failed to fetch tasks", last.Message)

	require.NoError(t, f.store.Refresh(ctx))
	assert.Len(t, f.store.Tasks(), 1)
}

func TestStore_FollowsSession(t *testing.T) {
	f := newSignedInStore(t)
	ctx := context.Background()

	_, err := f.store.Create(ctx, task.Draft{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, f.session.SignOut(ctx))
	require.Eventually(t, func() bool { return len(f.store.Tasks()) == 0 }, time.Second, 5*time.Millisecond)

	_, err = f.session.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(f.store.Tasks()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStore_ViewUsesClock(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newSignedInStore(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	today := task.DateOf(clock)
	tomorrow := task.DateOf(clock.AddDate(0, 0, 1))
	_, err := f.store.Create(ctx, task.Draft{Title: "today", DueDate: &today})
	require.NoError(t, err)
	_, err = f.store.Create(ctx, task.Draft{Title: "tomorrow", DueDate: &tomorrow})
	require.NoError(t, err)

	view := f.store.View(task.FilterToday, nil)
	assert.Equal(t, "Today's Tasks", view.Title)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "today", view.Tasks[0].Title)
	assert.Equal(t, 1, view.Counts.Today)
	assert.Equal(t, 2, view.Counts.Total)
}

func ptr[T any](v T) *T { return &v }
