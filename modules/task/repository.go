package task

import (
	"context"
	"errors"

	domain "github.com/example/work-note/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// another owner.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository handles task persistence using GORM. Every query is scoped
// to an owner.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns the owner's tasks, newest first.
func (r *TaskRepository) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0)
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByOwner finds one of the owner's tasks by ID.
func (r *TaskRepository) FindByOwner(ctx context.Context, ownerID, id string) (*domain.Task, error) {
	var task domain.Task
	result := r.db.WithContext(ctx).First(&task, "id = ? AND owner_id = ?", id, ownerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// Save writes every column of an existing task, including NULLs.
func (r *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes one of the owner's tasks.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
