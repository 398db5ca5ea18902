package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"
)

var (
	// ErrInvalidToken indicates the token is malformed, carries the wrong
	// use claim, or fails signature validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
)

// SessionClaims carries the identity assertion inside access and refresh tokens.
type SessionClaims struct {
	UserID   string      `json:"uid"`
	Role     domain.Role `json:"role"`
	TokenUse string      `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair returned by every login policy.
type TokenPair struct {
	Access    string
	Refresh   string
	ExpiresIn int
}

// TokenIssuer mints and validates stateless HS256 session tokens.
// No session state is persisted; the claims are the session.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret.
func NewTokenIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock overrides the time source, for tests.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	if now != nil {
		t.now = now
	}
	return t
}

// IssuePair mints an access/refresh token pair for the user.
func (t *TokenIssuer) IssuePair(user domain.User) (TokenPair, error) {
	if user.ID == "" {
		return TokenPair{}, fmt.Errorf("user id is required")
	}

	access, err := t.sign(user, tokenUseAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := t.sign(user, tokenUseRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int(t.accessTTL.Seconds()),
	}, nil
}

func (t *TokenIssuer) sign(user domain.User, use string, ttl time.Duration) (string, error) {
	now := t.now().UTC()
	claims := SessionClaims{
		UserID:   user.ID,
		Role:     user.Role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseAccess validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccess(token string) (*SessionClaims, error) {
	return t.parse(token, tokenUseAccess)
}

// ParseRefresh validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefresh(token string) (*SessionClaims, error) {
	return t.parse(token, tokenUseRefresh)
}

func (t *TokenIssuer) parse(token, expectedUse string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenUse != expectedUse {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
