package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

// ErrUnknownEmail indicates no account exists for the reset request.
var ErrUnknownEmail = errors.New("no account with this email")

// PasswordResetService drives the forgot/reset password flow with
// derived, state-bound tokens. A token stops working the moment the
// password changes.
type PasswordResetService struct {
	cfg         *config.AppConfig
	users       port.UserRepository
	validator   *security.PasswordValidator
	stateTokens *security.StateTokenIssuer
	mailer      port.Mailer
	events      port.EventPublisher
	logger      *zap.Logger
	clock       func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService instance.
func NewPasswordResetService(
	cfg *config.AppConfig,
	users port.UserRepository,
	validator *security.PasswordValidator,
	stateTokens *security.StateTokenIssuer,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		cfg:         cfg,
		users:       users,
		validator:   validator,
		stateTokens: stateTokens,
		mailer:      mailer,
		events:      events,
		logger:      log,
		clock:       time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *PasswordResetService) WithClock(clock func() time.Time) *PasswordResetService {
	s.clock = clock
	return s
}

// RequestReset emails a reset link. Unknown emails are reported to the
// caller, who turns them into a 404.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrUnknownEmail
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token := s.stateTokens.Derive(*user, security.PurposePasswordReset, s.cfg.Token.ResetTTL)
	link := fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.cfg.Frontend.ResetPasswordURL, "/"), user.ID, token)

	body := fmt.Sprintf(
		"Hi %s,\n\nUse the link below to choose a new password:\n\n%s\n\nIf you did not request this, you can ignore this email.",
		user.Username, link,
	)

	if err := s.mailer.Send(ctx, port.Email{
		To:      []string{user.Email},
		Subject: "Reset your Jaffa Explorer password",
		Body:    body,
	}); err != nil {
		s.logger.Warn("password reset mail failed",
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
	}

	return nil
}

// ConfirmReset replaces the password when the token still matches the
// account state. Replacing the hash invalidates every outstanding
// derived token at once.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, userID, token, password, password2 string) error {
	if password != password2 {
		return ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.stateTokens.Verify(*user, security.PurposePasswordReset, token); err != nil {
		return ErrInvalidToken
	}

	if err := s.validator.Validate(password, user.Email, user.Username); err != nil {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := s.clock().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hash, security.PasswordAlgo, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		UserID:    user.ID,
		ChangedAt: changedAt,
	}); err != nil {
		s.logger.Warn("publish password changed event failed", zap.Error(err))
	}

	return nil
}
