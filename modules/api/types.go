package api

import (
	"github.com/example/work-note/modules/notification"
)

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest is the body of PATCH /profile.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

// ChangePasswordRequest is the body of PUT /profile/password.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// ActivityResponse lists the caller's recent task activity.
type ActivityResponse struct {
	Activity []notification.Activity `json:"activity"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error kinds carried in ErrorResponse.Error.
const (
	KindBadRequest      = "bad_request"
	KindUnauthorized    = "unauthorized"
	KindNotFound        = "not_found"
	KindConflict        = "conflict"
	KindTooManyRequests = "too_many_requests"
	KindInternal        = "internal_error"
)
