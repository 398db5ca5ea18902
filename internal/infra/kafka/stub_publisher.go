package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"username":      event.Username,
		"email":         event.Email,
		"role":          string(event.Role),
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserVerified logs user.verified events.
func (p *StubPublisher) PublishUserVerified(_ context.Context, event domain.UserVerifiedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"verified_at": event.VerifiedAt,
	}
	p.logEvent("user.verified", event.UserID, event.VerifiedAt, payload)
	return nil
}

// PublishBusinessReviewed logs business.reviewed events.
func (p *StubPublisher) PublishBusinessReviewed(_ context.Context, event domain.BusinessReviewedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"email":       event.Email,
		"approved":    event.Approved,
		"reviewed_at": event.ReviewedAt,
	}
	p.logEvent("business.reviewed", event.UserID, event.ReviewedAt, payload)
	return nil
}

// PublishUserBanStateChanged logs user.ban_changed events.
func (p *StubPublisher) PublishUserBanStateChanged(_ context.Context, event domain.UserBanStateChangedEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"banned_until": event.BannedUntil,
		"changed_at":   event.ChangedAt,
	}
	p.logEvent("user.ban_changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishUserDeleted logs user.deleted events.
func (p *StubPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent("user.deleted", event.UserID, event.DeletedAt, payload)
	return nil
}

// PublishPasswordChanged logs user.password_changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"changed_at": event.ChangedAt,
	}
	p.logEvent("user.password_changed", event.UserID, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
