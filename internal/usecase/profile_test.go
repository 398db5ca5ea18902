package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

func seedBusinessProfile(profiles *stubProfileRepo, userID string) domain.BusinessProfile {
	profile := domain.BusinessProfile{
		ID:           uuid.NewString(),
		UserID:       userID,
		BusinessName: "Cafe Yafa",
		Category:     "food",
		Location:     "12 Yefet St",
		InArea:       true,
	}
	profiles.businesses[profile.ID] = profile
	return profile
}

func TestUpdateVisitorProfileKeepsUnsetFields(t *testing.T) {
	profiles := newStubProfileRepo()
	url := "https://img.example.com/maya.jpg"
	profiles.visitors["u1"] = domain.VisitorProfile{
		ID:          uuid.NewString(),
		UserID:      "u1",
		PhoneNumber: "050-1234567",
		ImageURL:    &url,
	}
	svc := NewProfileService(profiles)

	updated, err := svc.UpdateVisitorProfile(context.Background(), "u1", VisitorProfileUpdate{
		PhoneNumber: " 052-7654321 ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.PhoneNumber != "052-7654321" {
		t.Fatalf("phone = %q", updated.PhoneNumber)
	}
	if updated.ImageURL == nil || *updated.ImageURL != url {
		t.Fatal("image url must survive a partial update")
	}
}

func TestGetVisitorProfileMissing(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo())

	if _, err := svc.GetVisitorProfile(context.Background(), "u1"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestUpdateBusinessProfileCannotMoveOutOfArea(t *testing.T) {
	profiles := newStubProfileRepo()
	profile := seedBusinessProfile(profiles, "u1")
	svc := NewProfileService(profiles)

	updated, err := svc.UpdateBusinessProfile(context.Background(), "u1", BusinessProfileUpdate{
		BusinessName: "Cafe Yafa North",
		Description:  "Coffee and knafeh",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.BusinessName != "Cafe Yafa North" {
		t.Fatalf("name = %q", updated.BusinessName)
	}
	if !updated.InArea {
		t.Fatal("in-area flag must be immutable")
	}
	if updated.Category != profile.Category {
		t.Fatalf("category changed to %q without being set", updated.Category)
	}
}

func TestListBusinessesFiltersByCategory(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.approved = []domain.BusinessProfile{
		{ID: "b1", BusinessName: "Cafe Yafa", Category: "Food"},
		{ID: "b2", BusinessName: "Old Port Books", Category: "retail"},
	}
	svc := NewProfileService(profiles)

	out, err := svc.ListBusinesses(context.Background(), " food ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "b1" {
		t.Fatalf("expected only the food business, got %+v", out)
	}
}

func TestGalleryScopedToOwner(t *testing.T) {
	profiles := newStubProfileRepo()
	owner := seedBusinessProfile(profiles, "u1")
	other := seedBusinessProfile(profiles, "u2")
	svc := NewProfileService(profiles)

	image, err := svc.AddGalleryImage(context.Background(), "u1", "https://img.example.com/1.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.BusinessID != owner.ID {
		t.Fatalf("image attached to %s, want %s", image.BusinessID, owner.ID)
	}

	// The other business cannot delete it.
	if err := svc.DeleteGalleryImage(context.Background(), "u2", image.ID); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := svc.DeleteGalleryImage(context.Background(), "u1", image.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	images, err := svc.ListGalleryByBusiness(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected an empty gallery, got %d images", len(images))
	}
}

func TestListGalleryByUnknownBusiness(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo())

	if _, err := svc.ListGalleryByBusiness(context.Background(), "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
