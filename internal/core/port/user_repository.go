package port

import (
	"context"
	"time"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

// UserFilter narrows List and Count queries.
type UserFilter struct {
	Role   domain.Role
	Active *bool
	Limit  int
	Offset int
}

// UserRepository persists identity records. Reads used for authentication
// are keyed by email, the login handle.
type UserRepository interface {
	// Create inserts a bare user row. Returns repository.ErrDuplicateEmail
	// when the email is already registered.
	Create(ctx context.Context, user domain.User) error
	// CreateVisitor inserts the user and its visitor profile in one
	// transaction so a partial create never becomes visible.
	CreateVisitor(ctx context.Context, user domain.User, profile domain.VisitorProfile) error
	// CreateBusiness inserts the user and its business profile in one
	// transaction.
	CreateBusiness(ctx context.Context, user domain.User, profile domain.BusinessProfile) error

	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)

	UpdateActive(ctx context.Context, id string, active bool) error
	// UpdateApproval sets both approval and active flags in one statement.
	UpdateApproval(ctx context.Context, id string, approved, active bool) error
	UpdateBan(ctx context.Context, id string, bannedUntil *time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error

	// Delete hard-deletes the user; owned profiles and content cascade.
	Delete(ctx context.Context, id string) error
}
