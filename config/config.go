// Package config loads server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	HTTPPort        int
	DBPath          string
	DBDebug         bool
	ShutdownTimeout time.Duration

	JWT   JWT
	Redis Redis

	TaskCacheTTL     time.Duration
	SignInRateLimit  int
	SignInRateWindow time.Duration
}

// JWT holds token signing settings.
type JWT struct {
	SecretKey  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Redis holds the Redis connection settings. An empty Addr disables the
// task cache and the sign-in limiter.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	return LoadFiles()
}

// LoadFiles is Load with explicit .env paths. With no paths it reads ./.env.
func LoadFiles(paths ...string) (*Config, error) {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		HTTPPort:        getEnvInt("HTTP_PORT", 3000),
		DBPath:          getEnv("WORKNOTE_DB_PATH", "worknote.db"),
		DBDebug:         getEnvBool("DB_DEBUG", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		JWT: JWT{
			SecretKey:  getEnv("JWT_SECRET_KEY", "work-note-dev-secret-change-in-production"),
			Issuer:     getEnv("JWT_ISSUER", "work-note"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		TaskCacheTTL:     getEnvDuration("TASK_CACHE_TTL", 5*time.Minute),
		SignInRateLimit:  getEnvInt("SIGNIN_RATE_LIMIT", 10),
		SignInRateWindow: getEnvDuration("SIGNIN_RATE_WINDOW", time.Minute),
	}, nil
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}
