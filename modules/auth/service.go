package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/example/work-note/domain/user"
	"github.com/example/work-note/modules/cache"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	nanoid "github.com/jaevor/go-nanoid"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72
	minFullNameLength = 2
	maxFullNameLength = 100
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when password is too short.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrInvalidFullName is returned when a full name is out of bounds.
	ErrInvalidFullName = errors.New("full name must be between 2 and 100 characters")
	// ErrInvalidRefreshToken is returned when a refresh token cannot be used.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrSessionRevoked is returned when an access token's session was signed out.
	ErrSessionRevoked = errors.New("session has been revoked")
	// ErrTooManyAttempts is returned when sign-in attempts exceed the limit.
	ErrTooManyAttempts = errors.New("too many sign-in attempts")
)

// SignInLimiter limits sign-in attempts per key.
type SignInLimiter interface {
	Allow(ctx context.Context, key string) (*cache.Result, error)
}

// AuthService handles authentication business logic.
type AuthService struct {
	users        *UserRepository
	sessions     *SessionRepository
	hasher       *PasswordHasher
	jwt          *JWTManager
	limiter      SignInLimiter
	logger       types.Logger
	newSessionID func() string
	now          func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserRepository, sessions *SessionRepository, hasher *PasswordHasher, jwt *JWTManager, logger types.Logger) (*AuthService, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to create session id generator: %w", err)
	}
	return &AuthService{
		users:        users,
		sessions:     sessions,
		hasher:       hasher,
		jwt:          jwt,
		logger:       logger,
		newSessionID: gen,
		now:          time.Now,
	}, nil
}

// SetSignInLimiter enables per-email sign-in rate limiting.
func (s *AuthService) SetSignInLimiter(l SignInLimiter) {
	s.limiter = l
}

// normalizeEmail lower-cases and trims an address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeFullName(fullName string) (string, error) {
	name := strings.TrimSpace(fullName)
	n := utf8.RuneCountInString(name)
	if n < minFullNameLength || n > maxFullNameLength {
		return "", ErrInvalidFullName
	}
	return name, nil
}

// Register creates a new user account. The account is usable immediately;
// there is no confirmation step.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(fullName)
	if name != "" {
		var err error
		if name, err = normalizeFullName(name); err != nil {
			return nil, err
		}
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates a user, opens a session and returns its tokens.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.User, error) {
	email = normalizeEmail(email)

	if s.limiter != nil {
		res, err := s.limiter.Allow(ctx, email)
		switch {
		case err != nil:
			// fail open
			s.logger.Warn("Sign-in limiter unavailable", "error", err)
		case !res.Allowed:
			s.logger.Warn("Sign-in rate limited", "retry_after", res.RetryAfter.String())
			return nil, nil, ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// RefreshTokens rotates the session behind refreshToken and returns new tokens.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, *domain.User, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	session, err := s.sessions.FindByID(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session.UserID != claims.UserID || !session.Active(s.now()) {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.sessions.Revoke(ctx, session.ID, s.now()); err != nil {
		return nil, nil, fmt.Errorf("failed to revoke session: %w", err)
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// Logout revokes the given session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, userID, sessionID string) error {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find session: %w", err)
	}
	if session.UserID != userID {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID, s.now()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.logger.Info("Session revoked", "user_id", userID)
	return nil
}

// ValidateToken validates an access token and checks that its session is live.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.FindByID(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session.RevokedAt != nil {
		return nil, ErrSessionRevoked
	}

	return &domain.Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		SessionID: claims.SessionID(),
	}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile changes the user's full name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, fullName string) (*domain.User, error) {
	name, err := normalizeFullName(fullName)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFullName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// ChangePassword replaces the user's password and signs out every other session.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentSessionID, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	revoked, err := s.sessions.RevokeAllForUser(ctx, userID, currentSessionID, s.now())
	if err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	s.logger.Info("Password changed", "user_id", userID, "sessions_revoked", revoked)
	return nil
}

// openSession records a new refresh session and signs its token pair.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	now := s.now()
	session := &domain.Session{
		ID:        s.newSessionID(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.jwt.RefreshTokenDuration()),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Email, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Email, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}
