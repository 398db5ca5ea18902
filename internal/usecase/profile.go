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
	// ErrProfileNotFound indicates the caller has no profile of the requested kind.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNotOwner indicates the caller does not own the target resource.
	ErrNotOwner = errors.New("resource is owned by another account")
)

// VisitorProfileUpdate carries the mutable visitor profile fields.
type VisitorProfileUpdate struct {
	PhoneNumber string
	ImageURL    *string
}

// BusinessProfileUpdate carries the mutable business profile fields.
type BusinessProfileUpdate struct {
	BusinessName string
	Category     string
	Description  string
	Phone        string
	Location     string
	ImageURL     *string
}

// ProfileService serves profile reads and owner-scoped updates, the
// public business directory, and business galleries.
type ProfileService struct {
	profiles port.ProfileRepository
	clock    func() time.Time
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(profiles port.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, clock: time.Now}
}

// GetVisitorProfile returns the caller's visitor profile.
func (s *ProfileService) GetVisitorProfile(ctx context.Context, userID string) (*domain.VisitorProfile, error) {
	profile, err := s.profiles.GetVisitorByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get visitor profile: %w", err)
	}
	return profile, nil
}

// UpdateVisitorProfile applies the update to the caller's profile.
func (s *ProfileService) UpdateVisitorProfile(ctx context.Context, userID string, update VisitorProfileUpdate) (*domain.VisitorProfile, error) {
	profile, err := s.GetVisitorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if phone := strings.TrimSpace(update.PhoneNumber); phone != "" {
		profile.PhoneNumber = phone
	}
	if update.ImageURL != nil {
		profile.ImageURL = update.ImageURL
	}

	if err := s.profiles.UpdateVisitor(ctx, *profile); err != nil {
		return nil, fmt.Errorf("update visitor profile: %w", err)
	}

	return profile, nil
}

// GetBusinessProfile returns the caller's business profile.
func (s *ProfileService) GetBusinessProfile(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	profile, err := s.profiles.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	return profile, nil
}

// UpdateBusinessProfile applies the update to the caller's profile. The
// in-area flag is immutable after registration.
func (s *ProfileService) UpdateBusinessProfile(ctx context.Context, userID string, update BusinessProfileUpdate) (*domain.BusinessProfile, error) {
	profile, err := s.GetBusinessProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(update.BusinessName); name != "" {
		profile.BusinessName = name
	}
	if category := strings.TrimSpace(update.Category); category != "" {
		profile.Category = category
	}
	if update.Description != "" {
		profile.Description = update.Description
	}
	if phone := strings.TrimSpace(update.Phone); phone != "" {
		profile.Phone = phone
	}
	if location := strings.TrimSpace(update.Location); location != "" {
		profile.Location = location
	}
	if update.ImageURL != nil {
		profile.ImageURL = update.ImageURL
	}

	if err := s.profiles.UpdateBusiness(ctx, *profile); err != nil {
		return nil, fmt.Errorf("update business profile: %w", err)
	}

	return profile, nil
}

// ListBusinesses returns the public directory of approved, active
// businesses, optionally filtered by category.
func (s *ProfileService) ListBusinesses(ctx context.Context, category string) ([]domain.BusinessProfile, error) {
	profiles, err := s.profiles.ListApprovedBusinesses(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	return profiles, nil
}

// ListGallery returns the gallery of the caller's business.
func (s *ProfileService) ListGallery(ctx context.Context, userID string) ([]domain.GalleryImage, error) {
	profile, err := s.GetBusinessProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	images, err := s.profiles.ListGallery(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return images, nil
}

// ListGalleryByBusiness returns the public gallery of any business.
func (s *ProfileService) ListGalleryByBusiness(ctx context.Context, businessID string) ([]domain.GalleryImage, error) {
	if _, err := s.profiles.GetBusinessByID(ctx, businessID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}

	images, err := s.profiles.ListGallery(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	return images, nil
}

// AddGalleryImage inserts an image into the caller's gallery.
func (s *ProfileService) AddGalleryImage(ctx context.Context, userID, imageURL string) (*domain.GalleryImage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, fmt.Errorf("image url is required")
	}

	profile, err := s.GetBusinessProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	image := domain.GalleryImage{
		ID:         uuid.NewString(),
		BusinessID: profile.ID,
		ImageURL:   imageURL,
		UploadedAt: s.clock().UTC(),
	}

	if err := s.profiles.AddGalleryImage(ctx, image); err != nil {
		return nil, fmt.Errorf("add gallery image: %w", err)
	}

	return &image, nil
}

// DeleteGalleryImage removes an image from the caller's gallery. Images
// of other businesses are reported as absent.
func (s *ProfileService) DeleteGalleryImage(ctx context.Context, userID, imageID string) error {
	profile, err := s.GetBusinessProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.profiles.DeleteGalleryImage(ctx, imageID, profile.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("delete gallery image: %w", err)
	}

	return nil
}
