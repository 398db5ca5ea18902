package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

var (
	// ErrPasswordMismatch indicates the password confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrLocationRejected indicates the business is outside the covered area.
	ErrLocationRejected = errors.New("business location is outside the covered area")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidInput indicates a missing or malformed registration field.
	ErrInvalidInput = errors.New("invalid input")
)

// VisitorRegistrationInput carries the visitor signup form.
type VisitorRegistrationInput struct {
	Email     string
	Username  string
	Password  string
	Password2 string
	Phone     string
	ImageURL  *string
}

// BusinessRegistrationInput carries the business signup form.
type BusinessRegistrationInput struct {
	Email        string
	Username     string
	Password     string
	Password2    string
	BusinessName string
	Category     string
	Description  string
	Phone        string
	Location     string
	InArea       bool
	ImageURL     *string
}

// RegistrationService creates accounts and drives email verification.
type RegistrationService struct {
	cfg         *config.AppConfig
	users       port.UserRepository
	validator   *security.PasswordValidator
	stateTokens *security.StateTokenIssuer
	mailer      port.Mailer
	events      port.EventPublisher
	logger      *zap.Logger
	clock       func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	cfg *config.AppConfig,
	users port.UserRepository,
	validator *security.PasswordValidator,
	stateTokens *security.StateTokenIssuer,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
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
func (s *RegistrationService) WithClock(clock func() time.Time) *RegistrationService {
	s.clock = clock
	return s
}

func (s *RegistrationService) newUser(email, username, password, password2 string, role domain.Role) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email == "" {
		return domain.User{}, fmt.Errorf("email is required: %w", ErrInvalidInput)
	}
	if username == "" {
		return domain.User{}, fmt.Errorf("username is required: %w", ErrInvalidInput)
	}
	if password != password2 {
		return domain.User{}, ErrPasswordMismatch
	}
	if err := s.validator.Validate(password, email, username); err != nil {
		return domain.User{}, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock().UTC()
	return domain.User{
		ID:                uuid.NewString(),
		Username:          username,
		Email:             email,
		PasswordHash:      hash,
		PasswordAlgo:      security.PasswordAlgo,
		Role:              role,
		Active:            false,
		Approved:          role != domain.RoleBusiness,
		RegisteredAt:      now,
		PasswordChangedAt: now,
	}, nil
}

// RegisterVisitor creates an inactive visitor account with its profile
// and emails a verification link.
func (s *RegistrationService) RegisterVisitor(ctx context.Context, input VisitorRegistrationInput) (*domain.User, error) {
	user, err := s.newUser(input.Email, input.Username, input.Password, input.Password2, domain.RoleVisitor)
	if err != nil {
		return nil, err
	}

	profile := domain.VisitorProfile{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		PhoneNumber: strings.TrimSpace(input.Phone),
		ImageURL:    input.ImageURL,
	}

	if err := s.users.CreateVisitor(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create visitor: %w", err)
	}

	s.sendVerificationMail(ctx, user)
	s.publishRegistered(ctx, user)

	return &user, nil
}

// RegisterBusiness creates an inactive, unapproved business account with
// its profile and notifies the admin for manual review.
func (s *RegistrationService) RegisterBusiness(ctx context.Context, input BusinessRegistrationInput) (*domain.User, error) {
	if !input.InArea {
		return nil, ErrLocationRejected
	}

	user, err := s.newUser(input.Email, input.Username, input.Password, input.Password2, domain.RoleBusiness)
	if err != nil {
		return nil, err
	}

	profile := domain.BusinessProfile{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		BusinessName: strings.TrimSpace(input.BusinessName),
		Category:     strings.TrimSpace(input.Category),
		Description:  input.Description,
		Phone:        strings.TrimSpace(input.Phone),
		Location:     strings.TrimSpace(input.Location),
		InArea:       input.InArea,
		ImageURL:     input.ImageURL,
	}

	if profile.BusinessName == "" {
		return nil, fmt.Errorf("business name is required: %w", ErrInvalidInput)
	}

	if err := s.users.CreateBusiness(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create business: %w", err)
	}

	s.sendVerificationMail(ctx, user)
	s.notifyAdminOfBusiness(ctx, user, profile)
	s.publishRegistered(ctx, user)

	return &user, nil
}

// VerifyEmail confirms a verification link. The token is bound to the
// account state at issue time, so an already verified or otherwise
// changed account rejects it.
func (s *RegistrationService) VerifyEmail(ctx context.Context, userID, token string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.stateTokens.Verify(*user, security.PurposeEmailVerification, token); err != nil {
		return ErrInvalidToken
	}

	if err := s.users.UpdateActive(ctx, user.ID, true); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}

	if err := s.events.PublishUserVerified(ctx, domain.UserVerifiedEvent{
		UserID:     user.ID,
		VerifiedAt: s.clock().UTC(),
	}); err != nil {
		s.logger.Warn("publish user verified event failed", zap.Error(err))
	}

	return nil
}

func (s *RegistrationService) verificationLink(user domain.User) string {
	token := s.stateTokens.Derive(user, security.PurposeEmailVerification, s.cfg.Token.VerificationTTL)
	return fmt.Sprintf("%s/verify-email/%s/%s",
		strings.TrimRight(s.cfg.Frontend.APIBaseURL, "/"), user.ID, token)
}

func (s *RegistrationService) sendVerificationMail(ctx context.Context, user domain.User) {
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link expires in %d hours.",
		user.Username, s.verificationLink(user), int(s.cfg.Token.VerificationTTL.Hours()),
	)

	err := s.mailer.Send(ctx, port.Email{
		To:      []string{user.Email},
		Subject: "Verify your Jaffa Explorer account",
		Body:    body,
	})
	if err != nil {
		s.logger.Warn("verification mail failed",
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
	}
}

func (s *RegistrationService) notifyAdminOfBusiness(ctx context.Context, user domain.User, profile domain.BusinessProfile) {
	body := fmt.Sprintf(
		"A new business registration awaits review.\n\nBusiness: %s\nCategory: %s\nLocation: %s\nPhone: %s\nContact email: %s\nUser ID: %s",
		profile.BusinessName, profile.Category, profile.Location, profile.Phone, user.Email, user.ID,
	)

	err := s.mailer.Send(ctx, port.Email{
		To:      []string{s.cfg.Mail.AdminEmail},
		Subject: fmt.Sprintf("Business registration: %s", profile.BusinessName),
		Body:    body,
	})
	if err != nil {
		s.logger.Warn("admin notification mail failed", zap.Error(err))
	}
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user domain.User) {
	err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		RegisteredAt: user.RegisteredAt,
	})
	if err != nil {
		s.logger.Warn("publish user registered event failed", zap.Error(err))
	}
}
