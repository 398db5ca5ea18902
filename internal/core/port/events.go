package port

import (
	"context"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

// EventPublisher publishes account lifecycle events to the message bus.
// Publishing is fire-and-forget observability: callers log failures and
// never roll back committed state because of them.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserVerified(ctx context.Context, event domain.UserVerifiedEvent) error
	PublishBusinessReviewed(ctx context.Context, event domain.BusinessReviewedEvent) error
	PublishUserBanStateChanged(ctx context.Context, event domain.UserBanStateChangedEvent) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeletedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
}
