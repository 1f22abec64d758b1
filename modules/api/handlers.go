package api

import (
	"context"
	"errors"
	"strings"

	taskdomain "github.com/example/work-note/domain/task"
	"github.com/example/work-note/modules/auth"
	"github.com/example/work-note/modules/notification"
	"github.com/example/work-note/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// ActivityFeed returns an owner's recent task activity.
type ActivityFeed interface {
	Recent(ownerID string) []notification.Activity
}

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth     auth.AuthPort
	tasks    task.TaskPort
	activity ActivityFeed
	logger   types.Logger
}

// NewHandlers creates a new Handlers instance. activity may be nil.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort, activity ActivityFeed, logger types.Logger) *Handlers {
	return &Handlers{
		auth:     authPort,
		tasks:    taskPort,
		activity: activity,
		logger:   logger,
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   KindBadRequest,
		Message: message,
	})
}

// SignUp handles account creation.
func (h *Handlers) SignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	user, err := h.auth.Register(c.UserContext(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn handles password sign-in.
func (h *Handlers) SignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(session)
}

// Refresh rotates a session from its refresh token.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	session, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(session)
}

// SignOut revokes the caller's session.
func (h *Handlers) SignOut(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Profile returns the caller's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	user, err := h.auth.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile changes the caller's full name.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.auth.UpdateProfile(c.UserContext(), claims.UserID, req.FullName)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword replaces the caller's password. Other sessions are signed out.
func (h *Handlers) ChangePassword(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.auth.ChangePassword(c.UserContext(), claims, req.Password); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasks returns the caller's tasks, newest first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	tasks, err := h.tasks.List(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(task.ListTasksResponse{Tasks: tasks, Total: len(tasks)})
}

// CreateTask stores a new task for the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	var draft taskdomain.Draft
	if err := c.BodyParser(&draft); err != nil {
		return badRequest(c, "Invalid request body")
	}

	created, err := h.tasks.Create(c.UserContext(), claims.UserID, draft)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateTask applies a partial update to one of the caller's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	var patch taskdomain.Patch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.tasks.Update(c.UserContext(), claims.UserID, c.Params("id"), patch)
	if err != nil {
		return h.handleError(c, err)
	}
	return c.JSON(updated)
}

// DeleteTask removes one of the caller's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	if err := h.tasks.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activity returns the caller's recent task activity.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}
	resp := ActivityResponse{Activity: []notification.Activity{}}
	if h.activity != nil {
		resp.Activity = h.activity.Recent(claims.UserID)
	}
	return c.JSON(resp)
}

// errorKinds maps service sentinels to HTTP responses.
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized, KindUnauthorized},
	{auth.ErrInvalidRefreshToken, fiber.StatusUnauthorized, KindUnauthorized},
	{auth.ErrUserExists, fiber.StatusConflict, KindConflict},
	{auth.ErrInvalidEmail, fiber.StatusBadRequest, KindBadRequest},
	{auth.ErrWeakPassword, fiber.StatusBadRequest, KindBadRequest},
	{auth.ErrPasswordTooLong, fiber.StatusBadRequest, KindBadRequest},
	{auth.ErrInvalidFullName, fiber.StatusBadRequest, KindBadRequest},
	{auth.ErrTooManyAttempts, fiber.StatusTooManyRequests, KindTooManyRequests},
	{auth.ErrUserNotFound, fiber.StatusNotFound, KindNotFound},
	{task.ErrTaskNotFound, fiber.StatusNotFound, KindNotFound},
	{task.ErrMissingOwner, fiber.StatusUnauthorized, KindUnauthorized},
	{taskdomain.ErrEmptyTitle, fiber.StatusBadRequest, KindBadRequest},
	{taskdomain.ErrInvalidStatus, fiber.StatusBadRequest, KindBadRequest},
	{taskdomain.ErrInvalidPriority, fiber.StatusBadRequest, KindBadRequest},
	{taskdomain.ErrEmptyPatch, fiber.StatusBadRequest, KindBadRequest},
}

// handleError writes the response for a port error without exposing internals.
func (h *Handlers) handleError(c *fiber.Ctx, err error) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return c.Status(k.status).JSON(ErrorResponse{
				Error:   k.kind,
				Message: sentence(k.err.Error()),
			})
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.Warn("Request timed out", "path", c.Path(), "error", err)
	} else {
		h.logger.Error("Internal error", "path", c.Path(), "error", err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   KindInternal,
		Message: "An internal error occurred",
	})
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
