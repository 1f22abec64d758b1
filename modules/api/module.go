package api

import (
	"context"
	"fmt"

	"github.com/example/work-note/modules/auth"
	"github.com/example/work-note/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	port     int
	app      *fiber.App
	authPort auth.AuthPort
	taskPort task.TaskPort
	activity ActivityFeed
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule listening on port.
func NewModule(port int, logger types.Logger) *APIModule {
	if port == 0 {
		port = 3000
	}
	return &APIModule{
		port:   port,
		logger: logger.WithModule("api"),
	}
}

// SetActivityFeed serves the notification log at /api/v1/activity.
func (m *APIModule) SetActivityFeed(feed ActivityFeed) {
	m.activity = feed
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.taskPort == nil {
		return fmt.Errorf("task dependency not set")
	}

	m.app = newApp(NewHandlers(m.authPort, m.taskPort, m.activity, m.logger))

	addr := fmt.Sprintf(":%d", m.port)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// newApp builds the Fiber app with middleware and routes.
func newApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := app.Group("/api/v1")
	requireAuth := AuthMiddleware(h.auth)

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/signup", h.SignUp)
	authRoutes.Post("/signin", h.SignIn)
	authRoutes.Post("/refresh", h.Refresh)
	authRoutes.Post("/signout", requireAuth, h.SignOut)

	v1.Get("/profile", requireAuth, h.Profile)
	v1.Patch("/profile", requireAuth, h.UpdateProfile)
	v1.Put("/profile/password", requireAuth, h.ChangePassword)

	v1.Get("/tasks", requireAuth, h.ListTasks)
	v1.Post("/tasks", requireAuth, h.CreateTask)
	v1.Patch("/tasks/:id", requireAuth, h.UpdateTask)
	v1.Delete("/tasks/:id", requireAuth, h.DeleteTask)

	v1.Get("/activity", requireAuth, h.Activity)

	return app
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	kind := KindInternal
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
		if code == fiber.StatusNotFound {
			kind = KindNotFound
		}
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   kind,
		Message: message,
	})
}
