package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JWTConfig configures signing. Both token kinds share the secret and issuer.
type JWTConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	Issuer               string
}

// JWTClaims is the payload of access and refresh tokens alike. The jti
// names the session row, so revoking the session kills both tokens.
type JWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) SessionID() string {
	return c.ID
}

// JWTManager mints and checks HS256 tokens for one session store.
type JWTManager struct {
	secret []byte
	config JWTConfig
	parser *jwt.Parser
}

func NewJWTManager(config JWTConfig) *JWTManager {
	return &JWTManager{
		secret: []byte(config.SecretKey),
		config: config,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(config.Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (m *JWTManager) GenerateAccessToken(userID, email, sessionID string) (string, error) {
	return m.sign(userID, email, sessionID, tokenTypeAccess, m.config.AccessTokenDuration)
}

func (m *JWTManager) GenerateRefreshToken(userID, email, sessionID string) (string, error) {
	return m.sign(userID, email, sessionID, tokenTypeRefresh, m.config.RefreshTokenDuration)
}

func (m *JWTManager) sign(userID, email, sessionID, kind string, ttl time.Duration) (string, error) {
	issuedAt := jwt.NewNumericDate(time.Now())
	claims := &JWTClaims{
		UserID:    userID,
		Email:     email,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    m.config.Issuer,
			Subject:   userID,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTManager) ValidateAccessToken(token string) (*JWTClaims, error) {
	return m.parse(token, tokenTypeAccess)
}

func (m *JWTManager) ValidateRefreshToken(token string) (*JWTClaims, error) {
	return m.parse(token, tokenTypeRefresh)
}

// parse reports an expired token as ErrExpiredToken and every other
// failure, including a token of the other kind, as ErrInvalidToken.
func (m *JWTManager) parse(token, kind string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := m.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil, claims.TokenType != kind:
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenDuration is the access token lifetime in whole seconds, as
// reported in expires_in.
func (m *JWTManager) AccessTokenDuration() int64 {
	return int64(m.config.AccessTokenDuration / time.Second)
}

func (m *JWTManager) RefreshTokenDuration() time.Duration {
	return m.config.RefreshTokenDuration
}
