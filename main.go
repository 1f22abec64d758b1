package main

import (
	"context"
	"log"
	"os"

	"github.com/example/work-note/config"
	"github.com/example/work-note/modules/api"
	"github.com/example/work-note/modules/auth"
	"github.com/example/work-note/modules/cache"
	"github.com/example/work-note/modules/notification"
	"github.com/example/work-note/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Work-Note ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	authModule := auth.NewModule(auth.Config{
		DBPath:  cfg.DBPath,
		DBDebug: cfg.DBDebug,
		JWT: auth.JWTConfig{
			SecretKey:            cfg.JWT.SecretKey,
			Issuer:               cfg.JWT.Issuer,
			AccessTokenDuration:  cfg.JWT.AccessTTL,
			RefreshTokenDuration: cfg.JWT.RefreshTTL,
		},
	}, logger)
	taskModule := task.NewModule(task.Config{DBPath: cfg.DBPath, DBDebug: cfg.DBDebug}, logger)
	notificationModule := notification.NewModule(logger)
	apiModule := api.NewModule(cfg.HTTPPort, logger)
	apiModule.SetActivityFeed(notificationModule)

	// Redis is optional: without it tasks are read straight from SQLite and
	// sign-in attempts are not limited.
	if cfg.Redis.Enabled() {
		cacheModule := cache.NewModule(cache.Config{
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
			TaskListTTL:   cfg.TaskCacheTTL,
			SignIn: cache.LimiterConfig{
				RequestsPerWindow: cfg.SignInRateLimit,
				WindowSize:        cfg.SignInRateWindow,
			},
		}, logger)
		taskModule.SetCache(cacheModule.Cache())
		authModule.SetSignInLimiter(cacheModule.Limiter())
		app.Register(cacheModule)
	}

	// Order: providers first, then consumers and the HTTP adapter
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(notificationModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg *config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Printf("Database: %s", cfg.DBPath)
	if cfg.Redis.Enabled() {
		log.Printf("Redis: %s (task cache, sign-in limiter)", cfg.Redis.Addr)
	} else {
		log.Println("Redis: disabled")
	}
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", cfg.HTTPPort)
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/signup          - Create an account")
	log.Println("  POST   /api/v1/auth/signin          - Sign in and get tokens")
	log.Println("  POST   /api/v1/auth/refresh         - Rotate the session")
	log.Println("  GET    /health                      - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/v1/auth/signout         - Revoke the current session")
	log.Println("  GET    /api/v1/profile              - Current user")
	log.Println("  PATCH  /api/v1/profile              - Change full name")
	log.Println("  PUT    /api/v1/profile/password     - Change password")
	log.Println("  GET    /api/v1/tasks                - List tasks, newest first")
	log.Println("  POST   /api/v1/tasks                - Create a task")
	log.Println("  PATCH  /api/v1/tasks/:id            - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id            - Delete a task")
	log.Println("  GET    /api/v1/activity             - Recent task activity")
	log.Println("")
	log.Println("CLI: go run ./cmd/worknote --help")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
