package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Config configures the Redis connection and the values built on it.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TaskListTTL   time.Duration
	SignIn        LimiterConfig
}

// Module owns the Redis client shared by the task cache and sign-in limiter.
type Module struct {
	config  Config
	client  *redis.Client
	cache   *Cache
	limiter *SlidingWindowLimiter
	logger  types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the cache module. The client is created eagerly so that
// other modules can be wired before Start; no connection is made until use.
func NewModule(config Config, logger types.Logger) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:         config.RedisAddr,
		Password:     config.RedisPassword,
		DB:           config.RedisDB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &Module{
		config:  config,
		client:  client,
		cache:   New(client, "worknote:tasks:", config.TaskListTTL),
		limiter: NewSlidingWindowLimiter(client, config.SignIn, "worknote:signin:"),
		logger:  logger.WithModule("cache"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Cache returns the task list cache.
func (m *Module) Cache() *Cache {
	return m.cache
}

// Limiter returns the sign-in limiter.
func (m *Module) Limiter() *SlidingWindowLimiter {
	return m.limiter
}

// Start verifies the Redis connection.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	m.logger.Info("Connected to Redis",
		"addr", m.config.RedisAddr,
		"task_list_ttl", m.config.TaskListTTL.String(),
		"signin_limit", m.config.SignIn.RequestsPerWindow,
	)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	m.logger.Info("Cache module stopped")
	return nil
}

// Health pings Redis and reports cache statistics.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.cache.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.GetStats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis":    m.config.RedisAddr,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}
