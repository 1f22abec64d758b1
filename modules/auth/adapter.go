package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/example/work-note/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the authentication operations other modules use.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, email, password string) (*SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error)
	Logout(ctx context.Context, claims *domain.Claims) error
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*UserResponse, error)
	UpdateProfile(ctx context.Context, userID, fullName string) (*UserResponse, error)
	ChangePassword(ctx context.Context, claims *domain.Claims, password string) error
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &AuthAdapter{container: container}
}

// serviceErrors are the sentinels that survive a request-reply round trip.
// Only the message crosses the bus, so they are matched by text.
var serviceErrors = []error{
	ErrInvalidCredentials,
	ErrUserExists,
	ErrInvalidEmail,
	ErrWeakPassword,
	ErrPasswordTooLong,
	ErrInvalidFullName,
	ErrInvalidRefreshToken,
	ErrTooManyAttempts,
	ErrUserNotFound,
}

// translateError maps a request-reply error back to its sentinel.
func translateError(service string, err error) error {
	msg := err.Error()
	for _, sentinel := range serviceErrors {
		if strings.Contains(msg, sentinel.Error()) {
			return fmt.Errorf("%s: %w", service, sentinel)
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}

// callService performs a typed request-reply call and translates its error.
func callService[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return translateError(service, err)
	}
	return nil
}

// Register creates a user account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var resp UserResponse
	if err := callService(ctx, a.container, "register", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login opens a session.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp SessionResponse
	if err := callService(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh rotates a session.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp SessionResponse
	if err := callService(ctx, a.container, "refresh-token", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the session the claims belong to.
func (a *AuthAdapter) Logout(ctx context.Context, claims *domain.Claims) error {
	req := LogoutRequest{UserID: claims.UserID, SessionID: claims.SessionID}
	var resp LogoutResponse
	return callService(ctx, a.container, "logout", &req, &resp)
}

// ValidateToken validates an access token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := callService(ctx, a.container, "validate-token", &req, &resp); err != nil {
		return nil, err
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID:    resp.UserID,
		Email:     resp.Email,
		SessionID: resp.SessionID,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp UserResponse
	if err := callService(ctx, a.container, "get-user", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile changes the user's full name.
func (a *AuthAdapter) UpdateProfile(ctx context.Context, userID, fullName string) (*UserResponse, error) {
	req := UpdateProfileRequest{UserID: userID, FullName: fullName}
	var resp UserResponse
	if err := callService(ctx, a.container, "update-profile", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword replaces the password of the claims' user.
func (a *AuthAdapter) ChangePassword(ctx context.Context, claims *domain.Claims, password string) error {
	req := ChangePasswordRequest{UserID: claims.UserID, SessionID: claims.SessionID, Password: password}
	var resp ChangePasswordResponse
	return callService(ctx, a.container, "change-password", &req, &resp)
}
