package client

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/example/work-note/domain/user"
)

const (
	minPasswordLength = 6
	minFullNameLength = 2
	maxFullNameLength = 100
)

// Session holds the signed-in identity and tells subscribers when it changes.
type Session struct {
	backend AuthBackend
	creds   CredentialStore
	settings

	mu        sync.RWMutex
	identity  *user.Identity
	observers map[int]func(*user.Identity)
	nextID    int
}

// NewSession creates a signed-out session. Call Restore to resume a persisted
// one.
func NewSession(backend AuthBackend, creds CredentialStore, opts ...Option) *Session {
	if creds == nil {
		creds = &MemoryCredentials{}
	}
	return &Session{
		backend:   backend,
		creds:     creds,
		settings:  applyOptions(opts),
		observers: make(map[int]func(*user.Identity)),
	}
}

func validateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func validateFullName(fullName string) (string, error) {
	name := strings.TrimSpace(fullName)
	if n := utf8.RuneCountInString(name); n < minFullNameLength || n > maxFullNameLength {
		return "", ErrInvalidFullName
	}
	return name, nil
}

// SignUp creates an account and signs into it.
func (s *Session) SignUp(ctx context.Context, email, password, fullName string) (*user.Identity, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	name, err := validateFullName(fullName)
	if err != nil {
		return nil, err
	}

	if _, err := s.backend.SignUp(ctx, email, password, name); err != nil {
		if errors.Is(err, ErrConflict) {
			s.notifier.Error("Sign up failed", ErrAlreadyRegistered.Error())
			return nil, fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
		}
		s.logger.Error("Sign up failed", "error", err)
		s.notifier.Error("Sign up failed", "Could not create your account. Please try again.")
		return nil, err
	}
	s.logger.Info("Account created", "email", email)

	return s.SignIn(ctx, email, password)
}

// SignIn authenticates with email and password.
func (s *Session) SignIn(ctx context.Context, email, password string) (*user.Identity, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	id, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.notifier.Error("Sign in failed", ErrInvalidCredentials.Error())
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		s.logger.Error("Sign in failed", "error", err)
		s.notifier.Error("Sign in failed", "Could not sign in. Please try again.")
		return nil, err
	}

	s.setIdentity(id)
	s.logger.Info("Signed in", "user_id", id.UserID())
	return id, nil
}

// SignOut revokes the session remotely and forgets it locally. Local state is
// cleared even when the remote call fails; that error is returned.
func (s *Session) SignOut(ctx context.Context) error {
	id := s.Current()
	if id == nil {
		return nil
	}

	err := s.backend.SignOut(ctx, id.Tokens.AccessToken)
	if err != nil {
		s.logger.Warn("Remote sign out failed", "error", err)
	}
	s.setIdentity(nil)
	return err
}

// Restore resumes the persisted session by refreshing its tokens. It returns
// nil, nil when nothing is persisted.
func (s *Session) Restore(ctx context.Context) (*user.Identity, error) {
	stored, err := s.creds.Load()
	if err != nil {
		s.logger.Warn("Discarding unreadable credentials", "error", err)
		s.clearCredentials()
		return nil, nil
	}
	if stored == nil {
		return nil, nil
	}

	id, err := s.backend.Refresh(ctx, stored.Tokens.RefreshToken)
	if err != nil {
		s.logger.Info("Stored session is no longer valid", "error", err)
		if s.Current() != nil {
			s.setIdentity(nil)
		} else {
			s.clearCredentials()
		}
		return nil, err
	}

	s.setIdentity(id)
	return id, nil
}

// UpdateProfile changes the signed-in user's full name.
func (s *Session) UpdateProfile(ctx context.Context, fullName string) (*user.Identity, error) {
	id := s.Current()
	if id == nil {
		return nil, ErrNoIdentity
	}
	name, err := validateFullName(fullName)
	if err != nil {
		return nil, err
	}

	profile, err := s.backend.UpdateProfile(ctx, id.Tokens.AccessToken, name)
	if err != nil {
		s.logger.Error("Profile update failed", "error", err)
		s.notifier.Error("Error", "Failed to update profile")
		return nil, err
	}

	id.User = *profile
	s.setIdentity(id)
	s.notifier.Success("Success", "Profile updated")
	return id, nil
}

// ChangePassword replaces the signed-in user's password.
func (s *Session) ChangePassword(ctx context.Context, password string) error {
	id := s.Current()
	if id == nil {
		return ErrNoIdentity
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	if err := s.backend.ChangePassword(ctx, id.Tokens.AccessToken, password); err != nil {
		s.logger.Error("Password change failed", "error", err)
		s.notifier.Error("Error", "Failed to change password")
		return err
	}
	s.notifier.Success("Success", "Password changed")
	return nil
}

// Current returns a copy of the signed-in identity, or nil.
func (s *Session) Current() *user.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Subscribe registers fn to run, on its own goroutine, after every identity
// change. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(*user.Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextID
	s.nextID++
	s.observers[key] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, key)
		})
	}
}

func (s *Session) accessToken() (string, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return "", "", false
	}
	return s.identity.UserID(), s.identity.Tokens.AccessToken, true
}

// setIdentity stores id, persists it and notifies observers. nil signs out.
func (s *Session) setIdentity(id *user.Identity) {
	s.mu.Lock()
	if id == nil {
		s.identity = nil
	} else {
		cp := *id
		s.identity = &cp
	}
	observers := make([]func(*user.Identity), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	if id == nil {
		s.clearCredentials()
	} else if err := s.creds.Save(id); err != nil {
		s.logger.Warn("Failed to persist credentials", "error", err)
	}

	for _, fn := range observers {
		go fn(s.Current())
	}
}

func (s *Session) clearCredentials() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("Failed to clear credentials", "error", err)
	}
}
