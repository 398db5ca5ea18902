package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

func TestCreateSale(t *testing.T) {
	profiles := newStubProfileRepo()
	profile := seedBusinessProfile(profiles, "u1")
	sales := newStubSaleRepo()
	svc := NewSalesService(sales, newStubFavoriteRepo(), profiles)

	sale, err := svc.CreateSale(context.Background(), "u1", SaleInput{
		Title:     "  Summer menu  ",
		StartDate: testNow,
		EndDate:   testNow.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sale.Title != "Summer menu" {
		t.Fatalf("title = %q", sale.Title)
	}
	if sale.BusinessID != profile.ID {
		t.Fatalf("sale attached to %s, want %s", sale.BusinessID, profile.ID)
	}
	if _, ok := sales.sales[sale.ID]; !ok {
		t.Fatal("sale was not persisted")
	}
}

func TestCreateSaleValidation(t *testing.T) {
	profiles := newStubProfileRepo()
	seedBusinessProfile(profiles, "u1")
	svc := NewSalesService(newStubSaleRepo(), newStubFavoriteRepo(), profiles)

	cases := map[string]SaleInput{
		"empty title":    {Title: "   ", StartDate: testNow, EndDate: testNow},
		"inverted dates": {Title: "Sale", StartDate: testNow, EndDate: testNow.Add(-time.Hour)},
	}
	for name, input := range cases {
		if _, err := svc.CreateSale(context.Background(), "u1", input); !errors.Is(err, ErrInvalidSale) {
			t.Errorf("%s: expected ErrInvalidSale, got %v", name, err)
		}
	}
}

func TestCreateSaleWithoutBusinessProfile(t *testing.T) {
	svc := NewSalesService(newStubSaleRepo(), newStubFavoriteRepo(), newStubProfileRepo())

	_, err := svc.CreateSale(context.Background(), "u1", SaleInput{
		Title: "Sale", StartDate: testNow, EndDate: testNow,
	})
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestUpdateSaleRejectsForeignSale(t *testing.T) {
	profiles := newStubProfileRepo()
	seedBusinessProfile(profiles, "u1")
	other := seedBusinessProfile(profiles, "u2")
	sales := newStubSaleRepo(domain.Sale{ID: "s1", BusinessID: other.ID, Title: "Theirs"})
	svc := NewSalesService(sales, newStubFavoriteRepo(), profiles)

	_, err := svc.UpdateSale(context.Background(), "u1", "s1", SaleInput{
		Title: "Mine now", StartDate: testNow, EndDate: testNow,
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDeleteSaleAdminBypassesOwnership(t *testing.T) {
	profiles := newStubProfileRepo()
	business := seedBusinessProfile(profiles, "u1")
	sales := newStubSaleRepo(domain.Sale{ID: "s1", BusinessID: business.ID, Title: "Sale"})
	svc := NewSalesService(sales, newStubFavoriteRepo(), profiles)

	if err := svc.DeleteSale(context.Background(), "admin", domain.RoleAdmin, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sales.sales) != 0 {
		t.Fatal("expected the sale to be deleted")
	}
}

func TestDeleteSaleBusinessOwnershipEnforced(t *testing.T) {
	profiles := newStubProfileRepo()
	seedBusinessProfile(profiles, "u1")
	other := seedBusinessProfile(profiles, "u2")
	sales := newStubSaleRepo(domain.Sale{ID: "s1", BusinessID: other.ID, Title: "Theirs"})
	svc := NewSalesService(sales, newStubFavoriteRepo(), profiles)

	if err := svc.DeleteSale(context.Background(), "u1", domain.RoleBusiness, "s1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestFavoriteSaleIsIdempotent(t *testing.T) {
	profiles := newStubProfileRepo()
	business := seedBusinessProfile(profiles, "u1")
	sales := newStubSaleRepo(domain.Sale{ID: "s1", BusinessID: business.ID, Title: "Sale"})
	favorites := newStubFavoriteRepo()
	svc := NewSalesService(sales, favorites, profiles)

	if err := svc.FavoriteSale(context.Background(), "visitor", "s1"); err != nil {
		t.Fatalf("first favorite: %v", err)
	}
	if err := svc.FavoriteSale(context.Background(), "visitor", "s1"); err != nil {
		t.Fatalf("repeat favorite: %v", err)
	}
	if len(favorites.favorites) != 1 {
		t.Fatalf("expected one favorite row, got %d", len(favorites.favorites))
	}
}

func TestFavoriteUnknownSale(t *testing.T) {
	svc := NewSalesService(newStubSaleRepo(), newStubFavoriteRepo(), newStubProfileRepo())

	if err := svc.FavoriteSale(context.Background(), "visitor", "missing"); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestUnfavoriteWithoutFavorite(t *testing.T) {
	svc := NewSalesService(newStubSaleRepo(), newStubFavoriteRepo(), newStubProfileRepo())

	if err := svc.UnfavoriteSale(context.Background(), "visitor", "s1"); !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound, got %v", err)
	}
}

func TestListFavoritesSkipsDeletedSales(t *testing.T) {
	profiles := newStubProfileRepo()
	business := seedBusinessProfile(profiles, "u1")
	sales := newStubSaleRepo(
		domain.Sale{ID: "s1", BusinessID: business.ID, Title: "Kept"},
		domain.Sale{ID: "s2", BusinessID: business.ID, Title: "Gone"},
	)
	favorites := newStubFavoriteRepo()
	svc := NewSalesService(sales, favorites, profiles)

	for _, id := range []string{"s1", "s2"} {
		if err := svc.FavoriteSale(context.Background(), "visitor", id); err != nil {
			t.Fatalf("favorite %s: %v", id, err)
		}
	}
	delete(sales.sales, "s2")

	out, err := svc.ListFavorites(context.Background(), "visitor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "s1" {
		t.Fatalf("expected only the surviving sale, got %+v", out)
	}
}
