package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSuchUser indicates no account exists for the email.
	ErrNoSuchUser = errors.New("no account with this email")
	// ErrNotVerified indicates the account has not completed email verification.
	ErrNotVerified = errors.New("account is not verified")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrNotApproved indicates the business account awaits admin approval.
	ErrNotApproved = errors.New("business is not approved yet")
	// ErrWrongRole indicates the account exists but does not hold the role the endpoint serves.
	ErrWrongRole = errors.New("wrong account type for this login")
	// ErrNotAdmin merges wrong password and wrong role for the admin login.
	ErrNotAdmin = errors.New("invalid credentials or not an admin")
	// ErrStaleToken indicates a structurally valid token whose subject no longer exists.
	ErrStaleToken = errors.New("token subject no longer exists")
	// ErrInvalidToken indicates a malformed, forged, or expired token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// BannedError carries the remaining ban length for the login response.
type BannedError struct {
	RemainingDays int
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("user is banned for %d more days", e.RemainingDays)
}

// AuthService coordinates the three role-scoped login flows and token refresh.
type AuthService struct {
	users  port.UserRepository
	tokens *security.TokenIssuer
	clock  func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (s *AuthService) WithClock(clock func() time.Time) *AuthService {
	s.clock = clock
	return s
}

func (s *AuthService) lookup(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, repository.ErrNotFound
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

func (s *AuthService) checkPassword(password string, user *domain.User) (bool, error) {
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return ok, nil
}

// VisitorLogin authenticates a visitor account. Checks run in a fixed
// order so the caller sees the most specific failure: credentials, ban,
// verification, then role.
func (s *AuthService) VisitorLogin(ctx context.Context, email, password string) (security.TokenPair, error) {
	user, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, ErrInvalidCredentials
		}
		return security.TokenPair{}, err
	}

	ok, err := s.checkPassword(password, user)
	if err != nil {
		return security.TokenPair{}, err
	}
	if !ok {
		return security.TokenPair{}, ErrInvalidCredentials
	}

	now := s.clock()
	if user.IsBanned(now) {
		return security.TokenPair{}, &BannedError{RemainingDays: user.BanRemainingDays(now)}
	}

	if !user.Active {
		return security.TokenPair{}, ErrNotVerified
	}

	if user.Role != domain.RoleVisitor {
		return security.TokenPair{}, ErrWrongRole
	}

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	return pair, nil
}

// BusinessLogin authenticates a business account. The email lookup
// failure is reported explicitly, then inactive, unapproved, and role
// states, and the password last.
func (s *AuthService) BusinessLogin(ctx context.Context, email, password string) (security.TokenPair, error) {
	user, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, ErrNoSuchUser
		}
		return security.TokenPair{}, err
	}

	if !user.Active {
		return security.TokenPair{}, ErrInactiveAccount
	}

	if !user.Approved {
		return security.TokenPair{}, ErrNotApproved
	}

	if user.Role != domain.RoleBusiness {
		return security.TokenPair{}, ErrWrongRole
	}

	ok, err := s.checkPassword(password, user)
	if err != nil {
		return security.TokenPair{}, err
	}
	if !ok {
		return security.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	return pair, nil
}

// AdminLogin authenticates an admin account. All failures collapse into
// ErrNotAdmin so the endpoint never reveals whether the email belongs
// to an admin.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (security.TokenPair, error) {
	user, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, ErrNotAdmin
		}
		return security.TokenPair{}, err
	}

	ok, err := s.checkPassword(password, user)
	if err != nil {
		return security.TokenPair{}, err
	}
	if !ok || user.Role != domain.RoleAdmin || !user.Active {
		return security.TokenPair{}, ErrNotAdmin
	}

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a fresh pair. The subject is
// re-read so tokens outlive neither the account nor its right to log in.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (security.TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return security.TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return security.TokenPair{}, ErrStaleToken
		}
		return security.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsBanned(s.clock()) || !user.CanAuthenticate() {
		return security.TokenPair{}, ErrStaleToken
	}

	pair, err := s.tokens.IssuePair(*user)
	if err != nil {
		return security.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	return pair, nil
}

// ParseAccessToken validates an access token and returns its claims.
// Used by the authentication middleware.
func (s *AuthService) ParseAccessToken(token string) (*security.SessionClaims, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
