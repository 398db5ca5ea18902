package port

import (
	"context"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

// SaleRepository persists business sales.
type SaleRepository interface {
	Create(ctx context.Context, sale domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	Update(ctx context.Context, sale domain.Sale) error
	Delete(ctx context.Context, id string) error
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Sale, error)
	ListAll(ctx context.Context) ([]domain.Sale, error)
	Count(ctx context.Context) (int, error)
}

// FavoriteRepository persists visitor favorites of sales.
type FavoriteRepository interface {
	Get(ctx context.Context, userID, saleID string) (*domain.FavoriteSale, error)
	Create(ctx context.Context, favorite domain.FavoriteSale) error
	Delete(ctx context.Context, userID, saleID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.FavoriteSale, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository persists feed posts and their likes, comments, and reports.
type PostRepository interface {
	Create(ctx context.Context, post domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Post, error)
	Count(ctx context.Context) (int, error)

	GetLike(ctx context.Context, userID, postID string) (*domain.Like, error)
	CreateLike(ctx context.Context, like domain.Like) error
	DeleteLike(ctx context.Context, userID, postID string) error
	CountLikes(ctx context.Context, postID string) (int, error)

	CreateComment(ctx context.Context, comment domain.Comment) error
	ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error)

	CreateReport(ctx context.Context, report domain.Report) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context) ([]domain.Report, error)
	DeleteReport(ctx context.Context, id string) error
	DeleteReportsByPost(ctx context.Context, postID string) error
}

// OfferRepository persists loyalty offers and their redemptions.
type OfferRepository interface {
	Create(ctx context.Context, offer domain.Offer) error
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
	Update(ctx context.Context, offer domain.Offer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Offer, error)

	GetRedemption(ctx context.Context, userID, offerID string) (*domain.OfferRedemption, error)
	CreateRedemption(ctx context.Context, redemption domain.OfferRedemption) error
	ListRedemptionsByUser(ctx context.Context, userID string) ([]domain.OfferRedemption, error)
}

// SiteRatingRepository persists per-user platform ratings.
type SiteRatingRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.SiteRating, error)
	GetByID(ctx context.Context, id string) (*domain.SiteRating, error)
	Create(ctx context.Context, rating domain.SiteRating) error
	Update(ctx context.Context, rating domain.SiteRating) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.SiteRating, error)
}

// ContactRepository persists contact-us messages.
type ContactRepository interface {
	Create(ctx context.Context, message domain.ContactMessage) error
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}
