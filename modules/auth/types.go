package auth

import (
	"time"

	domain "github.com/example/work-note/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// UserResponse is the public view of a user returned by user-facing services.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

// Profile converts the response into the domain profile.
func (r UserResponse) Profile() domain.Profile {
	return domain.Profile{
		ID:        r.ID,
		Email:     r.Email,
		FullName:  r.FullName,
		CreatedAt: r.CreatedAt,
	}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse carries a token pair and the signed-in user. Login and
// refresh both return it.
type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
	User         UserResponse `json:"user"`
}

func toSessionResponse(tokens *domain.TokenPair, u *domain.User) SessionResponse {
	return SessionResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
		User:         toUserResponse(u),
	}
}

// Identity converts the response into a client identity.
func (r SessionResponse) Identity() *domain.Identity {
	return &domain.Identity{
		User: r.User.Profile(),
		Tokens: domain.TokenPair{
			AccessToken:  r.AccessToken,
			RefreshToken: r.RefreshToken,
			ExpiresIn:    r.ExpiresIn,
			TokenType:    r.TokenType,
		},
	}
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes one session.
type LogoutRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// ValidateTokenRequest represents a token validation request.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse represents a token validation response.
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UpdateProfileRequest changes a user's full name.
type UpdateProfileRequest struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
}

// ChangePasswordRequest replaces a user's password.
type ChangePasswordRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Password  string `json:"password"`
}

// ChangePasswordResponse represents a password change response.
type ChangePasswordResponse struct {
	Changed bool `json:"changed"`
}
