package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

// SaleRepository implements port.SaleRepository using PostgreSQL.
type SaleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSaleRepository wires a PostgreSQL-backed sale repository.
func NewSaleRepository(exec pgExecutor) *SaleRepository {
	return &SaleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var saleColumns = []string{
	"id",
	"business_id",
	"title",
	"description",
	"start_date",
	"end_date",
	"image_url",
	"created_at",
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var sale domain.Sale
	if err := row.Scan(
		&sale.ID,
		&sale.BusinessID,
		&sale.Title,
		&sale.Description,
		&sale.StartDate,
		&sale.EndDate,
		&sale.ImageURL,
		&sale.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sale, nil
}

// Create inserts a new sale.
func (r *SaleRepository) Create(ctx context.Context, sale domain.Sale) error {
	stmt, args, err := r.builder.Insert("directory.sales").
		Columns(saleColumns...).
		Values(
			sale.ID,
			sale.BusinessID,
			sale.Title,
			sale.Description,
			sale.StartDate,
			sale.EndDate,
			sale.ImageURL,
			sale.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

// GetByID retrieves a sale by identifier.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	stmt, args, err := r.builder.Select(saleColumns...).
		From("directory.sales").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select sale sql: %w", err)
	}

	sale, err := scanSale(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan sale: %w", err)
	}

	return sale, nil
}

// Update modifies the mutable fields of a sale.
func (r *SaleRepository) Update(ctx context.Context, sale domain.Sale) error {
	stmt, args, err := r.builder.Update("directory.sales").
		Set("title", sale.Title).
		Set("description", sale.Description).
		Set("start_date", sale.StartDate).
		Set("end_date", sale.EndDate).
		Set("image_url", sale.ImageURL).
		Where(squirrel.Eq{"id": sale.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update sale sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a sale.
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.sales").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete sale sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByBusiness returns the sales published by one business, newest first.
func (r *SaleRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Sale, error) {
	return r.list(ctx, squirrel.Eq{"business_id": businessID})
}

// ListAll returns every sale, newest first.
func (r *SaleRepository) ListAll(ctx context.Context) ([]domain.Sale, error) {
	return r.list(ctx, nil)
}

func (r *SaleRepository) list(ctx context.Context, where squirrel.Eq) ([]domain.Sale, error) {
	query := r.builder.Select(saleColumns...).
		From("directory.sales").
		OrderBy("created_at DESC")

	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	return sales, nil
}

// Count returns the total number of sales.
func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("directory.sales").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count sales sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan sales count: %w", err)
	}

	return int(count), nil
}

var _ port.SaleRepository = (*SaleRepository)(nil)

// FavoriteRepository implements port.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewFavoriteRepository wires a PostgreSQL-backed favorite repository.
func NewFavoriteRepository(exec pgExecutor) *FavoriteRepository {
	return &FavoriteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get retrieves a favorite by its (user, sale) pair.
func (r *FavoriteRepository) Get(ctx context.Context, userID, saleID string) (*domain.FavoriteSale, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "sale_id", "created_at").
		From("directory.favorite_sales").
		Where(squirrel.Eq{"user_id": userID, "sale_id": saleID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select favorite sql: %w", err)
	}

	var favorite domain.FavoriteSale
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&favorite.ID,
		&favorite.UserID,
		&favorite.SaleID,
		&favorite.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan favorite: %w", err)
	}

	return &favorite, nil
}

// Create inserts a favorite.
func (r *FavoriteRepository) Create(ctx context.Context, favorite domain.FavoriteSale) error {
	stmt, args, err := r.builder.Insert("directory.favorite_sales").
		Columns("id", "user_id", "sale_id", "created_at").
		Values(favorite.ID, favorite.UserID, favorite.SaleID, favorite.CreatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert favorite sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

// Delete removes a favorite by its (user, sale) pair.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, saleID string) error {
	stmt, args, err := r.builder.Delete("directory.favorite_sales").
		Where(squirrel.Eq{"user_id": userID, "sale_id": saleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete favorite sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByUser returns a user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteSale, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "sale_id", "created_at").
		From("directory.favorite_sales").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list favorites sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	favorites := make([]domain.FavoriteSale, 0)
	for rows.Next() {
		var favorite domain.FavoriteSale
		if err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.SaleID, &favorite.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return favorites, nil
}

// Count returns the total number of favorites.
func (r *FavoriteRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("directory.favorite_sales").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count favorites sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan favorites count: %w", err)
	}

	return int(count), nil
}

var _ port.FavoriteRepository = (*FavoriteRepository)(nil)
