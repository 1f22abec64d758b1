package task

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	domain "github.com/example/work-note/domain/task"
	"github.com/example/work-note/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrMissingOwner is returned when a request carries no owner.
var ErrMissingOwner = errors.New("owner is required")

// ListCache stores serialized task lists. *cache.Cache satisfies it.
type ListCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// TaskService implements owner-scoped task operations.
type TaskService struct {
	repo     *TaskRepository
	cache    ListCache
	eventBus mono.EventBus
	logger   types.Logger
	sfGroup  singleflight.Group
	now      func() time.Time

	// gens counts invalidations per owner so a list read that raced a
	// write is never left in the cache.
	genMu sync.Mutex
	gens  map[string]uint64
}

// NewTaskService creates a new TaskService. Cache and event bus are optional.
func NewTaskService(repo *TaskRepository, logger types.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SetCache enables read-through caching of task lists.
func (s *TaskService) SetCache(c ListCache) {
	s.cache = c
}

// SetEventBus enables event publishing.
func (s *TaskService) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

func listKey(ownerID string) string {
	return "list:" + ownerID
}

// List returns every task of the owner, newest first.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	if s.cache != nil {
		var cached []domain.Task
		found, err := s.cache.Get(ctx, listKey(ownerID), &cached)
		if err != nil {
			s.logger.Warn("Task cache read failed", "user_id", ownerID, "error", err)
		}
		if found {
			s.logger.Debug("Task cache hit", "user_id", ownerID)
			return cached, nil
		}
	}

	gen := s.generation(ownerID)
	val, err, _ := s.sfGroup.Do(ownerID+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		return s.repo.List(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	tasks := val.([]domain.Task)

	if s.cache != nil {
		s.storeList(ctx, ownerID, gen, tasks)
	}

	// shared with other singleflight callers
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// Create validates the draft and stores a new pending task.
func (s *TaskService) Create(ctx context.Context, ownerID string, draft domain.Draft) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	draft, err := draft.Normalize()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    draft.Priority,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)

	s.logger.Info("Task created", "task_id", task.ID, "user_id", ownerID)

	if s.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    task.ID,
			OwnerID:   ownerID,
			Title:     task.Title,
			CreatedAt: task.CreatedAt,
		}
		if task.DueDate != nil {
			event.DueDate = task.DueDate.String()
		}
		if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskCreated event", "task_id", task.ID, "error", err)
		}
	}

	return task, nil
}

// Get returns one of the owner's tasks.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	return s.repo.FindByOwner(ctx, ownerID, id)
}

// Update applies a partial update to one of the owner's tasks.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch domain.Patch) (*domain.Task, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	patch, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	task, err := s.repo.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	patch.ApplyTo(task)
	task.UpdatedAt = s.now().UTC()

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)

	if s.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    task.ID,
			OwnerID:   ownerID,
			Title:     task.Title,
			Status:    string(task.Status),
			Fields:    changedFields(patch),
			UpdatedAt: task.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskUpdated event", "task_id", task.ID, "error", err)
		}
	}

	return task, nil
}

// Delete removes one of the owner's tasks.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	task, err := s.repo.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)

	s.logger.Info("Task deleted", "task_id", id, "user_id", ownerID)

	if s.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    id,
			OwnerID:   ownerID,
			Title:     task.Title,
			DeletedAt: s.now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskDeleted event", "task_id", id, "error", err)
		}
	}
	return nil
}

func (s *TaskService) generation(ownerID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[ownerID]
}

// storeList caches tasks read at generation gen. If the owner was
// invalidated since, the snapshot is not written, or is removed again when
// the invalidation landed during the write.
func (s *TaskService) storeList(ctx context.Context, ownerID string, gen uint64, tasks []domain.Task) {
	if s.generation(ownerID) != gen {
		return
	}
	if err := s.cache.Set(ctx, listKey(ownerID), tasks); err != nil {
		s.logger.Warn("Task cache write failed", "user_id", ownerID, "error", err)
		return
	}
	if s.generation(ownerID) != gen {
		if err := s.cache.Delete(ctx, listKey(ownerID)); err != nil {
			s.logger.Warn("Failed to drop stale task list", "user_id", ownerID, "error", err)
		}
	}
}

func (s *TaskService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	if s.gens == nil {
		s.gens = make(map[string]uint64)
	}
	s.gens[ownerID]++
	s.genMu.Unlock()

	if err := s.cache.Delete(ctx, listKey(ownerID)); err != nil {
		s.logger.Warn("Failed to invalidate task cache", "user_id", ownerID, "error", err)
	}
}

// changedFields names the fields a patch touches, in column order.
func changedFields(p domain.Patch) []string {
	fields := make([]string, 0, 5)
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description.Set {
		fields = append(fields, "description")
	}
	if p.DueDate.Set {
		fields = append(fields, "due_date")
	}
	if p.Priority.Set {
		fields = append(fields, "priority")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}
