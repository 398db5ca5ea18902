package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

var (
	// ErrRatingNotFound indicates the caller has not rated the site.
	ErrRatingNotFound = errors.New("site rating not found")
	// ErrInvalidRating indicates the score is outside the 1..5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// SiteRatingService implements the one-rating-per-account site feedback.
type SiteRatingService struct {
	ratings port.SiteRatingRepository
	clock   func() time.Time
}

// NewSiteRatingService constructs a SiteRatingService instance.
func NewSiteRatingService(ratings port.SiteRatingRepository) *SiteRatingService {
	return &SiteRatingService{ratings: ratings, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (s *SiteRatingService) WithClock(clock func() time.Time) *SiteRatingService {
	s.clock = clock
	return s
}

// SubmitRating records the caller's rating of the platform. A second
// submission replaces the first one.
func (s *SiteRatingService) SubmitRating(ctx context.Context, userID string, score int, comment string) (*domain.SiteRating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)

	existing, err := s.ratings.GetByUserID(ctx, userID)
	if err == nil {
		existing.Rating = score
		existing.Comment = comment
		if err := s.ratings.Update(ctx, *existing); err != nil {
			return nil, fmt.Errorf("update site rating: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get site rating: %w", err)
	}

	rating := domain.SiteRating{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    score,
		Comment:   comment,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("create site rating: %w", err)
	}

	return &rating, nil
}

// GetOwnRating returns the caller's rating, or ErrRatingNotFound when the
// account has not rated the site yet.
func (s *SiteRatingService) GetOwnRating(ctx context.Context, userID string) (*domain.SiteRating, error) {
	rating, err := s.ratings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("get site rating: %w", err)
	}
	return rating, nil
}

// ListRatings returns every rating, newest first.
func (s *SiteRatingService) ListRatings(ctx context.Context) ([]domain.SiteRating, error) {
	ratings, err := s.ratings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list site ratings: %w", err)
	}
	return ratings, nil
}

// DeleteRating removes a rating by identifier. Admin only, enforced at the
// transport layer.
func (s *SiteRatingService) DeleteRating(ctx context.Context, ratingID string) error {
	if err := s.ratings.Delete(ctx, ratingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("delete site rating: %w", err)
	}
	return nil
}
