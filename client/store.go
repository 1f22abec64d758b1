package client

import (
	"context"
	"sync"

	"github.com/example/work-note/domain/task"
	"github.com/example/work-note/domain/user"
)

// Store is the signed-in user's task list. It reloads whenever the session's
// identity changes and applies each confirmed mutation locally.
type Store struct {
	session *Session
	backend TaskBackend
	settings

	mu          sync.RWMutex
	owner       string
	tasks       []task.Task
	unsubscribe func()
}

// View is a filtered projection of the store.
type View struct {
	Filter task.Filter
	Title  string
	Tasks  []task.Task
	Counts task.Counts
}

// NewStore creates a store bound to session. It starts empty; the first
// identity change or an explicit Refresh loads it.
func NewStore(session *Session, backend TaskBackend, opts ...Option) *Store {
	s := &Store{
		session:  session,
		backend:  backend,
		settings: applyOptions(opts),
		tasks:    []task.Task{},
	}
	s.unsubscribe = session.Subscribe(func(*user.Identity) {
		s.Refresh(context.Background())
	})
	return s
}

// Close stops following the session.
func (s *Store) Close() {
	s.unsubscribe()
}

// Refresh reloads every task of the signed-in user. Signed out, the list is
// emptied. On failure the list is emptied and the error returned.
func (s *Store) Refresh(ctx context.Context) error {
	owner, token, ok := s.session.accessToken()
	if !ok {
		s.replace("", []task.Task{})
		return nil
	}

	tasks, err := s.backend.ListTasks(ctx, token)
	if err != nil {
		s.logger.Error("Failed to fetch tasks", "user_id", owner, "error", err)
		s.notifier.Error("Error", "Failed to fetch tasks")
		s.replaceIfCurrent(owner, []task.Task{})
		return err
	}
	s.replaceIfCurrent(owner, tasks)
	return nil
}

// Create adds a task. Signed out or with a blank title it does nothing and
// returns ErrNoIdentity or task.ErrEmptyTitle.
func (s *Store) Create(ctx context.Context, draft task.Draft) (*task.Task, error) {
	owner, token, ok := s.session.accessToken()
	if !ok {
		return nil, ErrNoIdentity
	}
	draft, err := draft.Normalize()
	if err != nil {
		return nil, err
	}
	switch {
	case !s.priorities:
		draft.Priority = nil
	case draft.Priority == nil && s.defaultPriority != nil:
		p := *s.defaultPriority
		draft.Priority = &p
	}

	created, err := s.backend.CreateTask(ctx, token, draft)
	if err != nil {
		s.logger.Error("Failed to create task", "user_id", owner, "error", err)
		s.notifier.Error("Error", "Failed to create task")
		return nil, err
	}

	s.mutate(owner, func(tasks []task.Task) []task.Task {
		return append([]task.Task{*created}, tasks...)
	})
	s.notifier.Success("Success", "Task created")
	return created, nil
}

// Update applies patch to the task with id and replaces it in place.
func (s *Store) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	owner, token, ok := s.session.accessToken()
	if !ok {
		return nil, ErrNoIdentity
	}
	if !s.priorities {
		patch.Priority = task.Nullable[task.TaskPriority]{}
	}
	patch, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	updated, err := s.backend.UpdateTask(ctx, token, id, patch)
	if err != nil {
		s.logger.Error("Failed to update task", "task_id", id, "error", err)
		s.notifier.Error("Error", "Failed to update task")
		return nil, err
	}

	s.mutate(owner, func(tasks []task.Task) []task.Task {
		for i := range tasks {
			if tasks[i].ID == id {
				tasks[i] = *updated
				break
			}
		}
		return tasks
	})
	s.notifier.Success("Success", "Task updated")
	return updated, nil
}

// Delete removes the task with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	owner, token, ok := s.session.accessToken()
	if !ok {
		return ErrNoIdentity
	}

	if err := s.backend.DeleteTask(ctx, token, id); err != nil {
		s.logger.Error("Failed to delete task", "task_id", id, "error", err)
		s.notifier.Error("Error", "Failed to delete task")
		return err
	}

	s.mutate(owner, func(tasks []task.Task) []task.Task {
		out := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	s.notifier.Success("Success", "Task deleted")
	return nil
}

// Toggle flips the status of the task with id. An id not in the store is a
// no-op and returns nil, nil.
func (s *Store) Toggle(ctx context.Context, id string) (*task.Task, error) {
	t, ok := s.find(id)
	if !ok {
		return nil, nil
	}
	status := t.Status.Toggled()
	return s.Update(ctx, id, task.Patch{Status: &status})
}

// Tasks returns a copy of the list, newest first.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]task.Task{}, s.tasks...)
}

// Counts summarizes the whole list as of today.
func (s *Store) Counts() task.Counts {
	return task.Count(s.Tasks(), s.today())
}

// View applies filter and returns the heading, matching tasks and counts.
func (s *Store) View(filter task.Filter, custom *task.Date) View {
	tasks := s.Tasks()
	today := s.today()
	return View{
		Filter: filter,
		Title:  filter.Title(custom),
		Tasks:  task.Apply(tasks, filter, today, custom),
		Counts: task.Count(tasks, today),
	}
}

func (s *Store) today() task.Date {
	return task.DateOf(s.now())
}

func (s *Store) find(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (s *Store) replace(owner string, tasks []task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = owner
	s.tasks = tasks
}

// replaceIfCurrent drops results for an owner who is no longer signed in.
func (s *Store) replaceIfCurrent(owner string, tasks []task.Task) {
	if s.session.Current().UserID() != owner {
		return
	}
	s.replace(owner, tasks)
}

// mutate edits the list if owner is still signed in. A list loaded for
// someone else is discarded first.
func (s *Store) mutate(owner string, fn func([]task.Task) []task.Task) {
	if s.session.Current().UserID() != owner {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != owner {
		s.owner = owner
		s.tasks = nil
	}
	s.tasks = fn(append([]task.Task{}, s.tasks...))
}
