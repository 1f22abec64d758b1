package client

import (
	"log/slog"
	"sync"
)

// Notifier surfaces user-facing outcomes.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// SlogNotifier writes notifications to a slog.Logger.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a SlogNotifier. A nil logger uses slog.Default().
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Success(title, message string) {
	n.logger.Info(message, "title", title)
}

func (n *SlogNotifier) Error(title, message string) {
	n.logger.Error(message, "title", title)
}

// Notification is one recorded notification.
type Notification struct {
	Level   string
	Title   string
	Message string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(title, message string) {
	r.add(Notification{Level: "success", Title: title, Message: message})
}

func (r *Recorder) Error(title, message string) {
	r.add(Notification{Level: "error", Title: title, Message: message})
}

func (r *Recorder) add(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns the notifications recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
