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
	// ErrSaleNotFound indicates the sale does not exist.
	ErrSaleNotFound = errors.New("sale not found")
	// ErrFavoriteNotFound indicates the sale was never favorited.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrInvalidSale indicates the sale form failed validation.
	ErrInvalidSale = errors.New("invalid sale")
)

// SaleInput carries the sale create/update form.
type SaleInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	ImageURL    *string
}

// SalesService implements business sale publishing and visitor favorites.
type SalesService struct {
	sales     port.SaleRepository
	favorites port.FavoriteRepository
	profiles  port.ProfileRepository
	clock     func() time.Time
}

// NewSalesService constructs a SalesService instance.
func NewSalesService(sales port.SaleRepository, favorites port.FavoriteRepository, profiles port.ProfileRepository) *SalesService {
	return &SalesService{sales: sales, favorites: favorites, profiles: profiles, clock: time.Now}
}

func (s *SalesService) ownBusiness(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	profile, err := s.profiles.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get business profile: %w", err)
	}
	return profile, nil
}

func validateSaleInput(input SaleInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSale)
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidSale)
	}
	return nil
}

// CreateSale publishes a sale on the caller's business.
func (s *SalesService) CreateSale(ctx context.Context, userID string, input SaleInput) (*domain.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	profile, err := s.ownBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	sale := domain.Sale{
		ID:          uuid.NewString(),
		BusinessID:  profile.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ImageURL:    input.ImageURL,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	return &sale, nil
}

// UpdateSale modifies a sale owned by the caller's business.
func (s *SalesService) UpdateSale(ctx context.Context, userID, saleID string, input SaleInput) (*domain.Sale, error) {
	if err := validateSaleInput(input); err != nil {
		return nil, err
	}

	profile, err := s.ownBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	if sale.BusinessID != profile.ID {
		return nil, ErrNotOwner
	}

	sale.Title = strings.TrimSpace(input.Title)
	sale.Description = input.Description
	sale.StartDate = input.StartDate
	sale.EndDate = input.EndDate
	sale.ImageURL = input.ImageURL

	if err := s.sales.Update(ctx, *sale); err != nil {
		return nil, fmt.Errorf("update sale: %w", err)
	}

	return sale, nil
}

// DeleteSale removes a sale. Admins may delete any sale; businesses only
// their own.
func (s *SalesService) DeleteSale(ctx context.Context, userID string, role domain.Role, saleID string) error {
	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("get sale: %w", err)
	}

	if role != domain.RoleAdmin {
		profile, err := s.ownBusiness(ctx, userID)
		if err != nil {
			return err
		}
		if sale.BusinessID != profile.ID {
			return ErrNotOwner
		}
	}

	if err := s.sales.Delete(ctx, sale.ID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	return nil
}

// ListSales returns every published sale.
func (s *SalesService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.sales.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// ListOwnSales returns the sales published by the caller's business.
func (s *SalesService) ListOwnSales(ctx context.Context, userID string) ([]domain.Sale, error) {
	profile, err := s.ownBusiness(ctx, userID)
	if err != nil {
		return nil, err
	}

	sales, err := s.sales.ListByBusiness(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list own sales: %w", err)
	}
	return sales, nil
}

// FavoriteSale marks a sale as favorited by the caller. Repeating the
// call is a no-op.
func (s *SalesService) FavoriteSale(ctx context.Context, userID, saleID string) error {
	if _, err := s.sales.GetByID(ctx, saleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("get sale: %w", err)
	}

	if _, err := s.favorites.Get(ctx, userID, saleID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("get favorite: %w", err)
	}

	favorite := domain.FavoriteSale{
		ID:        uuid.NewString(),
		UserID:    userID,
		SaleID:    saleID,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.favorites.Create(ctx, favorite); err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}

	return nil
}

// UnfavoriteSale removes the caller's favorite of a sale.
func (s *SalesService) UnfavoriteSale(ctx context.Context, userID, saleID string) error {
	if err := s.favorites.Delete(ctx, userID, saleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// ListFavorites returns the sales the caller has favorited.
func (s *SalesService) ListFavorites(ctx context.Context, userID string) ([]domain.Sale, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	sales := make([]domain.Sale, 0, len(favorites))
	for _, favorite := range favorites {
		sale, err := s.sales.GetByID(ctx, favorite.SaleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get favorited sale: %w", err)
		}
		sales = append(sales, *sale)
	}

	return sales, nil
}
