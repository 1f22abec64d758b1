package client

import (
	"io"
	"log/slog"
	"time"

	"github.com/example/work-note/domain/task"
)

type settings struct {
	notifier        Notifier
	logger          *slog.Logger
	priorities      bool
	defaultPriority *task.TaskPriority
	now             func() time.Time
}

func defaultSettings() settings {
	medium := task.PriorityMedium
	return settings{
		notifier:        nopNotifier{},
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		priorities:      true,
		defaultPriority: &medium,
		now:             time.Now,
	}
}

// Option configures a Session or Store.
type Option func(*settings)

// WithNotifier routes user-facing notifications to n.
func WithNotifier(n Notifier) Option {
	return func(s *settings) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultPriority sets the priority given to new tasks that have none.
func WithDefaultPriority(p task.TaskPriority) Option {
	return func(s *settings) {
		s.priorities = true
		s.defaultPriority = &p
	}
}

// WithoutPriority disables priorities: the store never sends one.
func WithoutPriority() Option {
	return func(s *settings) {
		s.priorities = false
		s.defaultPriority = nil
	}
}

// WithClock sets the clock used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string) {}
