package usecase

import (
	"context"
	"crypto/rand"
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
	// ErrOfferNotFound indicates the offer does not exist.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrInvalidOffer indicates the offer form failed validation.
	ErrInvalidOffer = errors.New("invalid offer")
)

// OfferInput carries the offer create/update form.
type OfferInput struct {
	Title       string
	Description string
	Price       int
	BusinessID  *string
	ImageURL    *string
}

// OfferView pairs an offer with the display name of its business, when any.
type OfferView struct {
	Offer        domain.Offer
	BusinessName string
}

// RedemptionView pairs a redemption with the offer it was redeemed against.
type RedemptionView struct {
	Redemption   domain.OfferRedemption
	OfferTitle   string
	OfferPrice   int
	BusinessName string
	ImageURL     *string
}

// OffersService implements admin-curated loyalty offers and visitor
// redemptions.
type OffersService struct {
	offers   port.OfferRepository
	profiles port.ProfileRepository
	clock    func() time.Time
}

// NewOffersService constructs an OffersService instance.
func NewOffersService(offers port.OfferRepository, profiles port.ProfileRepository) *OffersService {
	return &OffersService{offers: offers, profiles: profiles, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (s *OffersService) WithClock(clock func() time.Time) *OffersService {
	s.clock = clock
	return s
}

func (s *OffersService) validateInput(ctx context.Context, input OfferInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidOffer)
	}
	if input.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidOffer)
	}

	if input.BusinessID != nil {
		if _, err := s.profiles.GetBusinessByID(ctx, *input.BusinessID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("get business profile: %w", err)
		}
	}

	return nil
}

// CreateOffer publishes a new offer authored by the given admin.
func (s *OffersService) CreateOffer(ctx context.Context, adminID string, input OfferInput) (*domain.Offer, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	offer := domain.Offer{
		ID:          uuid.NewString(),
		BusinessID:  input.BusinessID,
		CreatedBy:   adminID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	return &offer, nil
}

// UpdateOffer modifies an existing offer.
func (s *OffersService) UpdateOffer(ctx context.Context, offerID string, input OfferInput) (*domain.Offer, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}

	offer.BusinessID = input.BusinessID
	offer.Title = strings.TrimSpace(input.Title)
	offer.Description = input.Description
	offer.Price = input.Price
	offer.ImageURL = input.ImageURL

	if err := s.offers.Update(ctx, *offer); err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}

	return offer, nil
}

// DeleteOffer removes an offer and its redemptions.
func (s *OffersService) DeleteOffer(ctx context.Context, offerID string) error {
	if err := s.offers.Delete(ctx, offerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("delete offer: %w", err)
	}
	return nil
}

// ListOffers returns every published offer with its business name resolved.
func (s *OffersService) ListOffers(ctx context.Context) ([]OfferView, error) {
	offers, err := s.offers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	views := make([]OfferView, 0, len(offers))
	for _, offer := range offers {
		name, err := s.businessName(ctx, offer.BusinessID)
		if err != nil {
			return nil, err
		}
		views = append(views, OfferView{Offer: offer, BusinessName: name})
	}

	return views, nil
}

// RedeemOffer hands the caller a redemption code. Each account redeems an
// offer at most once; repeating the call returns the original code.
func (s *OffersService) RedeemOffer(ctx context.Context, userID, offerID string) (*domain.OfferRedemption, error) {
	if _, err := s.offers.GetByID(ctx, offerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}

	existing, err := s.offers.GetRedemption(ctx, userID, offerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get redemption: %w", err)
	}

	code, err := newRedemptionCode()
	if err != nil {
		return nil, fmt.Errorf("generate redemption code: %w", err)
	}

	redemption := domain.OfferRedemption{
		ID:         uuid.NewString(),
		OfferID:    offerID,
		UserID:     userID,
		Code:       code,
		RedeemedAt: s.clock().UTC(),
	}

	if err := s.offers.CreateRedemption(ctx, redemption); err != nil {
		return nil, fmt.Errorf("create redemption: %w", err)
	}

	return &redemption, nil
}

// ListOwnRedemptions returns the caller's redemptions with offer details
// attached. Redemptions of since-deleted offers are skipped.
func (s *OffersService) ListOwnRedemptions(ctx context.Context, userID string) ([]RedemptionView, error) {
	redemptions, err := s.offers.ListRedemptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}

	views := make([]RedemptionView, 0, len(redemptions))
	for _, redemption := range redemptions {
		offer, err := s.offers.GetByID(ctx, redemption.OfferID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get redeemed offer: %w", err)
		}

		name, err := s.businessName(ctx, offer.BusinessID)
		if err != nil {
			return nil, err
		}

		views = append(views, RedemptionView{
			Redemption:   redemption,
			OfferTitle:   offer.Title,
			OfferPrice:   offer.Price,
			BusinessName: name,
			ImageURL:     offer.ImageURL,
		})
	}

	return views, nil
}

func (s *OffersService) businessName(ctx context.Context, businessID *string) (string, error) {
	if businessID == nil {
		return "", nil
	}

	profile, err := s.profiles.GetBusinessByID(ctx, *businessID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get business profile: %w", err)
	}

	return profile.BusinessName, nil
}

// codeAlphabet omits characters easy to misread on a printed coupon.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newRedemptionCode() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(out), nil
}
