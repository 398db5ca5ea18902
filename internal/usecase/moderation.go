package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

// ErrUserNotFound indicates the moderation target does not exist, or is
// not of the kind the operation expects.
var ErrUserNotFound = errors.New("user not found")

// DashboardCounters aggregates entity totals for the admin dashboard.
type DashboardCounters struct {
	Users      int `json:"users"`
	Visitors   int `json:"visitors"`
	Businesses int `json:"businesses"`
	Sales      int `json:"sales"`
	Favorites  int `json:"favorites"`
	Posts      int `json:"posts"`
}

// ModerationService implements the admin account lifecycle operations.
type ModerationService struct {
	cfg       *config.AppConfig
	users     port.UserRepository
	sales     port.SaleRepository
	favorites port.FavoriteRepository
	posts     port.PostRepository
	mailer    port.Mailer
	events    port.EventPublisher
	logger    *zap.Logger
	clock     func() time.Time
}

// NewModerationService constructs a ModerationService instance.
func NewModerationService(
	cfg *config.AppConfig,
	users port.UserRepository,
	sales port.SaleRepository,
	favorites port.FavoriteRepository,
	posts port.PostRepository,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
) *ModerationService {
	return &ModerationService{
		cfg:       cfg,
		users:     users,
		sales:     sales,
		favorites: favorites,
		posts:     posts,
		mailer:    mailer,
		events:    events,
		logger:    log,
		clock:     time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *ModerationService) WithClock(clock func() time.Time) *ModerationService {
	s.clock = clock
	return s
}

func (s *ModerationService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// BanUser sets the ban expiry to now plus the configured window.
// Re-banning an already banned user restarts the window.
func (s *ModerationService) BanUser(ctx context.Context, id string) (time.Time, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return time.Time{}, err
	}

	until := s.clock().UTC().Add(s.cfg.Moderation.BanDuration)
	if err := s.users.UpdateBan(ctx, user.ID, &until); err != nil {
		return time.Time{}, fmt.Errorf("set ban: %w", err)
	}

	s.notify(ctx, user.Email, "Your account has been suspended",
		fmt.Sprintf("Hi %s,\n\nYour account has been suspended until %s.",
			user.Username, until.Format("2 January 2006")))
	s.publishBanChange(ctx, user.ID, &until)

	return until, nil
}

// UnbanUser clears the ban expiry.
func (s *ModerationService) UnbanUser(ctx context.Context, id string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.UpdateBan(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("clear ban: %w", err)
	}

	s.notify(ctx, user.Email, "Your account has been restored",
		fmt.Sprintf("Hi %s,\n\nYour account suspension has been lifted. You can log in again.", user.Username))
	s.publishBanChange(ctx, user.ID, nil)

	return nil
}

// ApproveBusiness marks a pending business as approved and active.
// Targets that are not business accounts are reported as absent.
func (s *ModerationService) ApproveBusiness(ctx context.Context, id string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleBusiness {
		return ErrUserNotFound
	}

	if err := s.users.UpdateApproval(ctx, user.ID, true, true); err != nil {
		return fmt.Errorf("approve business: %w", err)
	}

	s.notify(ctx, user.Email, "Your business has been approved",
		fmt.Sprintf("Hi %s,\n\nYour business registration was approved. You can now log in and publish sales.", user.Username))
	s.publishReview(ctx, user, true)

	return nil
}

// DeclineBusiness deletes a pending business registration. The contact
// email is captured before the hard delete so the applicant can still
// be notified.
func (s *ModerationService) DeclineBusiness(ctx context.Context, id string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleBusiness {
		return ErrUserNotFound
	}

	email := user.Email
	username := user.Username

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete declined business: %w", err)
	}

	s.notify(ctx, email, "Your business registration was declined",
		fmt.Sprintf("Hi %s,\n\nWe are sorry, your business registration was not approved.", username))
	s.publishReview(ctx, user, false)

	return nil
}

// DeleteUser removes any account outright.
func (s *ModerationService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.events.PublishUserDeleted(ctx, domain.UserDeletedEvent{
		UserID:    id,
		DeletedAt: s.clock().UTC(),
	}); err != nil {
		s.logger.Warn("publish user deleted event failed", zap.Error(err))
	}

	return nil
}

// ListUsers returns accounts matching the filter for the admin view.
func (s *ModerationService) ListUsers(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

// Counters aggregates the dashboard totals.
func (s *ModerationService) Counters(ctx context.Context) (DashboardCounters, error) {
	var counters DashboardCounters

	total, err := s.users.Count(ctx, port.UserFilter{})
	if err != nil {
		return counters, fmt.Errorf("count users: %w", err)
	}
	visitors, err := s.users.Count(ctx, port.UserFilter{Role: domain.RoleVisitor})
	if err != nil {
		return counters, fmt.Errorf("count visitors: %w", err)
	}
	businesses, err := s.users.Count(ctx, port.UserFilter{Role: domain.RoleBusiness})
	if err != nil {
		return counters, fmt.Errorf("count businesses: %w", err)
	}
	sales, err := s.sales.Count(ctx)
	if err != nil {
		return counters, fmt.Errorf("count sales: %w", err)
	}
	favorites, err := s.favorites.Count(ctx)
	if err != nil {
		return counters, fmt.Errorf("count favorites: %w", err)
	}
	posts, err := s.posts.Count(ctx)
	if err != nil {
		return counters, fmt.Errorf("count posts: %w", err)
	}

	counters = DashboardCounters{
		Users:      total,
		Visitors:   visitors,
		Businesses: businesses,
		Sales:      sales,
		Favorites:  favorites,
		Posts:      posts,
	}
	return counters, nil
}

func (s *ModerationService) notify(ctx context.Context, email, subject, body string) {
	err := s.mailer.Send(ctx, port.Email{To: []string{email}, Subject: subject, Body: body})
	if err != nil {
		s.logger.Warn("moderation mail failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}
}

func (s *ModerationService) publishBanChange(ctx context.Context, userID string, until *time.Time) {
	err := s.events.PublishUserBanStateChanged(ctx, domain.UserBanStateChangedEvent{
		UserID:      userID,
		BannedUntil: until,
		ChangedAt:   s.clock().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish ban change event failed", zap.Error(err))
	}
}

func (s *ModerationService) publishReview(ctx context.Context, user *domain.User, approved bool) {
	err := s.events.PublishBusinessReviewed(ctx, domain.BusinessReviewedEvent{
		UserID:     user.ID,
		Email:      user.Email,
		Approved:   approved,
		ReviewedAt: s.clock().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish business review event failed", zap.Error(err))
	}
}
