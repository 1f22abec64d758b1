package user

import (
	"strings"
	"time"
)

// User represents a user account.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex;not null;type:text"`
	FullName     string `gorm:"type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Session is a refresh-token session. Signing out revokes it.
type Session struct {
	ID        string `gorm:"primaryKey;type:text"`
	UserID    string `gorm:"index;not null;type:text"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// TableName returns the table name for the Session entity.
func (Session) TableName() string {
	return "sessions"
}

// Active reports whether the session can still mint tokens at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token" yaml:"access_token"`
	RefreshToken string `json:"refresh_token" yaml:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in" yaml:"expires_in"`
	TokenType    string `json:"token_type" yaml:"token_type"`
}

// Claims represents validated access token claims.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

// Profile is the public view of a user.
type Profile struct {
	ID        string    `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	FullName  string    `json:"full_name" yaml:"full_name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ProfileOf returns the public view of u.
func ProfileOf(u *User) Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}

// DisplayName is the full name, else the local part of the email, else "User".
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

// Identity is the authenticated user held by a client session.
type Identity struct {
	User   Profile   `json:"user" yaml:"user"`
	Tokens TokenPair `json:"tokens" yaml:"tokens"`
}

// UserID returns the owner id used to scope tasks.
func (i *Identity) UserID() string {
	if i == nil {
		return ""
	}
	return i.User.ID
}
