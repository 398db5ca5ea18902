package port

import (
	"context"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

// ProfileRepository persists the one-to-one profile extensions of users.
type ProfileRepository interface {
	GetVisitorByUserID(ctx context.Context, userID string) (*domain.VisitorProfile, error)
	UpdateVisitor(ctx context.Context, profile domain.VisitorProfile) error

	GetBusinessByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error)
	GetBusinessByID(ctx context.Context, id string) (*domain.BusinessProfile, error)
	UpdateBusiness(ctx context.Context, profile domain.BusinessProfile) error
	// ListApprovedBusinesses returns profiles whose owner is approved and
	// active, optionally filtered by category (case-insensitive).
	ListApprovedBusinesses(ctx context.Context, category string) ([]domain.BusinessProfile, error)

	ListGallery(ctx context.Context, businessID string) ([]domain.GalleryImage, error)
	AddGalleryImage(ctx context.Context, image domain.GalleryImage) error
	// DeleteGalleryImage removes the image only when it belongs to the
	// given business.
	DeleteGalleryImage(ctx context.Context, id, businessID string) error
}
