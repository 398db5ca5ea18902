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

// SiteRatingRepository implements port.SiteRatingRepository using PostgreSQL.
type SiteRatingRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSiteRatingRepository wires a PostgreSQL-backed site rating repository.
func NewSiteRatingRepository(exec pgExecutor) *SiteRatingRepository {
	return &SiteRatingRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var siteRatingColumns = []string{
	"id",
	"user_id",
	"rating",
	"comment",
	"created_at",
}

func scanSiteRating(row pgx.Row) (*domain.SiteRating, error) {
	var rating domain.SiteRating
	if err := row.Scan(
		&rating.ID,
		&rating.UserID,
		&rating.Rating,
		&rating.Comment,
		&rating.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByUserID retrieves the rating left by one user.
func (r *SiteRatingRepository) GetByUserID(ctx context.Context, userID string) (*domain.SiteRating, error) {
	return r.get(ctx, squirrel.Eq{"user_id": userID})
}

// GetByID retrieves a rating by identifier.
func (r *SiteRatingRepository) GetByID(ctx context.Context, id string) (*domain.SiteRating, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *SiteRatingRepository) get(ctx context.Context, where squirrel.Eq) (*domain.SiteRating, error) {
	stmt, args, err := r.builder.Select(siteRatingColumns...).
		From("directory.site_ratings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select site rating sql: %w", err)
	}

	rating, err := scanSiteRating(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan site rating: %w", err)
	}

	return rating, nil
}

// Create inserts a rating. The user_id column carries a unique constraint
// enforcing one rating per account.
func (r *SiteRatingRepository) Create(ctx context.Context, rating domain.SiteRating) error {
	stmt, args, err := r.builder.Insert("directory.site_ratings").
		Columns(siteRatingColumns...).
		Values(
			rating.ID,
			rating.UserID,
			rating.Rating,
			rating.Comment,
			rating.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert site rating sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert site rating: %w", err)
	}

	return nil
}

// Update replaces the score and comment of an existing rating.
func (r *SiteRatingRepository) Update(ctx context.Context, rating domain.SiteRating) error {
	stmt, args, err := r.builder.Update("directory.site_ratings").
		Set("rating", rating.Rating).
		Set("comment", rating.Comment).
		Where(squirrel.Eq{"id": rating.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update site rating sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update site rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a rating.
func (r *SiteRatingRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.site_ratings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete site rating sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete site rating: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns every rating, newest first.
func (r *SiteRatingRepository) List(ctx context.Context) ([]domain.SiteRating, error) {
	stmt, args, err := r.builder.Select(siteRatingColumns...).
		From("directory.site_ratings").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list site ratings sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query site ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]domain.SiteRating, 0)
	for rows.Next() {
		rating, err := scanSiteRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site rating: %w", err)
		}
		ratings = append(ratings, *rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate site ratings: %w", err)
	}

	return ratings, nil
}

var _ port.SiteRatingRepository = (*SiteRatingRepository)(nil)
