package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	uuid "github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

func newOffersService(offers *stubOfferRepo, profiles *stubProfileRepo) *OffersService {
	return NewOffersService(offers, profiles).WithClock(testClock)
}

func seedOffer(offers *stubOfferRepo, businessID *string) domain.Offer {
	offer := domain.Offer{
		ID:          uuid.NewString(),
		BusinessID:  businessID,
		CreatedBy:   uuid.NewString(),
		Title:       "Free hummus plate",
		Description: "Redeem at the counter",
		Price:       50,
		CreatedAt:   testNow.Add(-24 * time.Hour),
	}
	offers.offers[offer.ID] = offer
	return offer
}

func TestCreateOffer(t *testing.T) {
	offers := newStubOfferRepo()
	profiles := newStubProfileRepo()
	profile := seedBusinessProfile(profiles, uuid.NewString())
	svc := newOffersService(offers, profiles)

	adminID := uuid.NewString()
	offer, err := svc.CreateOffer(context.Background(), adminID, OfferInput{
		Title:      " Free coffee ",
		Price:      30,
		BusinessID: &profile.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if offer.Title != "Free coffee" {
		t.Fatalf("expected trimmed title, got %q", offer.Title)
	}
	if offer.CreatedBy != adminID {
		t.Fatalf("expected creator %s, got %s", adminID, offer.CreatedBy)
	}
	if !offer.CreatedAt.Equal(testNow) {
		t.Fatalf("expected created at %v, got %v", testNow, offer.CreatedAt)
	}
	if _, ok := offers.offers[offer.ID]; !ok {
		t.Fatal("offer was not persisted")
	}
}

func TestCreateOfferValidation(t *testing.T) {
	missing := uuid.NewString()
	cases := map[string]OfferInput{
		"blank title":    {Title: "   ", Price: 30},
		"zero price":     {Title: "Free coffee", Price: 0},
		"negative price": {Title: "Free coffee", Price: -5},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newOffersService(newStubOfferRepo(), newStubProfileRepo())
			if _, err := svc.CreateOffer(context.Background(), uuid.NewString(), input); !errors.Is(err, ErrInvalidOffer) {
				t.Fatalf("expected ErrInvalidOffer, got %v", err)
			}
		})
	}

	t.Run("unknown business", func(t *testing.T) {
		svc := newOffersService(newStubOfferRepo(), newStubProfileRepo())
		_, err := svc.CreateOffer(context.Background(), uuid.NewString(), OfferInput{
			Title:      "Free coffee",
			Price:      30,
			BusinessID: &missing,
		})
		if !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

func TestUpdateOfferUnknown(t *testing.T) {
	svc := newOffersService(newStubOfferRepo(), newStubProfileRepo())

	_, err := svc.UpdateOffer(context.Background(), "missing", OfferInput{Title: "Free coffee", Price: 30})
	if !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestDeleteOffer(t *testing.T) {
	offers := newStubOfferRepo()
	offer := seedOffer(offers, nil)
	svc := newOffersService(offers, newStubProfileRepo())

	if err := svc.DeleteOffer(context.Background(), offer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteOffer(context.Background(), offer.ID); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound on repeat, got %v", err)
	}
}

func TestListOffersResolvesBusinessName(t *testing.T) {
	offers := newStubOfferRepo()
	profiles := newStubProfileRepo()
	profile := seedBusinessProfile(profiles, uuid.NewString())
	seedOffer(offers, &profile.ID)
	seedOffer(offers, nil)
	svc := newOffersService(offers, profiles)

	views, err := svc.ListOffers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(views))
	}

	named := 0
	for _, view := range views {
		if view.Offer.BusinessID != nil {
			if view.BusinessName != profile.BusinessName {
				t.Fatalf("expected business name %q, got %q", profile.BusinessName, view.BusinessName)
			}
			named++
		} else if view.BusinessName != "" {
			t.Fatalf("expected empty business name, got %q", view.BusinessName)
		}
	}
	if named != 1 {
		t.Fatalf("expected one offer bound to a business, got %d", named)
	}
}

func TestRedeemOfferIssuesCodeOnce(t *testing.T) {
	offers := newStubOfferRepo()
	offer := seedOffer(offers, nil)
	svc := newOffersService(offers, newStubProfileRepo())

	userID := uuid.NewString()
	first, err := svc.RedeemOffer(context.Background(), userID, offer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Code) != 10 {
		t.Fatalf("expected a 10-character code, got %q", first.Code)
	}

	second, err := svc.RedeemOffer(context.Background(), userID, offer.ID)
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if second.Code != first.Code {
		t.Fatalf("repeat redemption must return the original code, got %q and %q", first.Code, second.Code)
	}
	if len(offers.redemptions) != 1 {
		t.Fatalf("expected a single redemption row, got %d", len(offers.redemptions))
	}
}

func TestRedeemUnknownOffer(t *testing.T) {
	svc := newOffersService(newStubOfferRepo(), newStubProfileRepo())

	if _, err := svc.RedeemOffer(context.Background(), uuid.NewString(), "missing"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestListOwnRedemptionsCarriesOfferDetails(t *testing.T) {
	offers := newStubOfferRepo()
	profiles := newStubProfileRepo()
	profile := seedBusinessProfile(profiles, uuid.NewString())
	offer := seedOffer(offers, &profile.ID)
	svc := newOffersService(offers, profiles)

	userID := uuid.NewString()
	redemption, err := svc.RedeemOffer(context.Background(), userID, offer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	views, err := svc.ListOwnRedemptions(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 redemption, got %d", len(views))
	}

	view := views[0]
	if view.Redemption.Code != redemption.Code {
		t.Fatalf("expected code %q, got %q", redemption.Code, view.Redemption.Code)
	}
	if view.OfferTitle != offer.Title || view.OfferPrice != offer.Price {
		t.Fatalf("expected offer details %q/%d, got %q/%d", offer.Title, offer.Price, view.OfferTitle, view.OfferPrice)
	}
	if view.BusinessName != profile.BusinessName {
		t.Fatalf("expected business name %q, got %q", profile.BusinessName, view.BusinessName)
	}
}

func TestListOwnRedemptionsSkipsDeletedOffers(t *testing.T) {
	offers := newStubOfferRepo()
	offer := seedOffer(offers, nil)
	svc := newOffersService(offers, newStubProfileRepo())

	userID := uuid.NewString()
	if _, err := svc.RedeemOffer(context.Background(), userID, offer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delete(offers.offers, offer.ID)

	views, err := svc.ListOwnRedemptions(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected no redemptions after offer removal, got %d", len(views))
	}
}
