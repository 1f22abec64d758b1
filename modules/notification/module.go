package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/work-note/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// MaxEntriesPerOwner bounds each owner's activity log.
const MaxEntriesPerOwner = 100

// Activity is one entry in an owner's activity log.
type Activity struct {
	TaskID    string    `json:"task_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule consumes task events and keeps a short activity log per
// owner.
type NotificationModule struct {
	activity map[string][]Activity
	mu       sync.RWMutex
	logger   types.Logger
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

func NewModule(logger types.Logger) *NotificationModule {
	return &NotificationModule{
		activity: make(map[string][]Activity),
		logger:   logger.WithModule("notification"),
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", "TaskCreated, TaskUpdated, TaskDeleted")
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Info("Task created", "task_id", event.TaskID, "user_id", event.OwnerID)
	msg := fmt.Sprintf("Task '%s' created", event.Title)
	if event.DueDate != "" {
		msg += ", due " + event.DueDate
	}
	m.record(event.OwnerID, Activity{
		TaskID:    event.TaskID,
		Type:      "task_created",
		Message:   msg,
		Timestamp: event.CreatedAt,
	})
	return nil
}

func (m *NotificationModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Info("Task updated", "task_id", event.TaskID, "user_id", event.OwnerID, "fields", event.Fields)

	entry := Activity{
		TaskID:    event.TaskID,
		Type:      "task_updated",
		Message:   fmt.Sprintf("Task '%s' updated", event.Title),
		Timestamp: event.UpdatedAt,
	}
	if len(event.Fields) == 1 && event.Fields[0] == "status" {
		entry.Type = "task_" + event.Status
		entry.Message = fmt.Sprintf("Task '%s' marked %s", event.Title, event.Status)
	}
	m.record(event.OwnerID, entry)
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Task deleted", "task_id", event.TaskID, "user_id", event.OwnerID)
	m.record(event.OwnerID, Activity{
		TaskID:    event.TaskID,
		Type:      "task_deleted",
		Message:   fmt.Sprintf("Task '%s' deleted", event.Title),
		Timestamp: event.DeletedAt,
	})
	return nil
}

func (m *NotificationModule) record(ownerID string, entry Activity) {
	if ownerID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	log := append(m.activity[ownerID], entry)
	if len(log) > MaxEntriesPerOwner {
		log = append([]Activity(nil), log[len(log)-MaxEntriesPerOwner:]...)
	}
	m.activity[ownerID] = log
}

// Recent returns the owner's activity, newest first.
func (m *NotificationModule) Recent(ownerID string) []Activity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.activity[ownerID]
	result := make([]Activity, len(log))
	for i, entry := range log {
		result[len(log)-1-i] = entry
	}
	return result
}

func (m *NotificationModule) Start(_ context.Context) error {
	m.logger.Info("Notification module started, listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	m.logger.Info("Notification module stopped")
	return nil
}
