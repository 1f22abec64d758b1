package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFiles_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "WORKNOTE_DB_PATH", "REDIS_ADDR", "JWT_ACCESS_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	if cfg.HTTPPort != 3000 {
		t.Errorf("HTTPPort = %d, want 3000", cfg.HTTPPort)
	}
	if cfg.DBPath != "worknote.db" {
		t.Errorf("DBPath = %q, want worknote.db", cfg.DBPath)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without REDIS_ADDR")
	}
	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Errorf("JWT.AccessTTL = %v, want 15m", cfg.JWT.AccessTTL)
	}
}

func TestLoadFiles_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_PORT=8081\nREDIS_ADDR=localhost:6380\nTASK_CACHE_TTL=30s\nDB_DEBUG=true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	// godotenv never overrides variables that are already set, so make sure
	// these are unset and restored afterwards.
	for _, key := range []string{"HTTP_PORT", "REDIS_ADDR", "TASK_CACHE_TTL", "DB_DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	if cfg.HTTPPort != 8081 {
		t.Errorf("HTTPPort = %d, want 8081", cfg.HTTPPort)
	}
	if cfg.Redis.Addr != "localhost:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.TaskCacheTTL != 30*time.Second {
		t.Errorf("TaskCacheTTL = %v, want 30s", cfg.TaskCacheTTL)
	}
	if !cfg.DBDebug {
		t.Error("DBDebug should be true")
	}
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("WORKNOTE_TEST_INT", "not-a-number")
	if got := getEnvInt("WORKNOTE_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt() = %d, want 7", got)
	}
}
