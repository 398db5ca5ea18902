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

// OfferRepository implements port.OfferRepository using PostgreSQL.
type OfferRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewOfferRepository wires a PostgreSQL-backed offer repository.
func NewOfferRepository(exec pgExecutor) *OfferRepository {
	return &OfferRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var offerColumns = []string{
	"id",
	"business_id",
	"created_by",
	"title",
	"description",
	"price",
	"image_url",
	"created_at",
}

func scanOffer(row pgx.Row) (*domain.Offer, error) {
	var offer domain.Offer
	if err := row.Scan(
		&offer.ID,
		&offer.BusinessID,
		&offer.CreatedBy,
		&offer.Title,
		&offer.Description,
		&offer.Price,
		&offer.ImageURL,
		&offer.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &offer, nil
}

// Create inserts a new offer.
func (r *OfferRepository) Create(ctx context.Context, offer domain.Offer) error {
	stmt, args, err := r.builder.Insert("directory.offers").
		Columns(offerColumns...).
		Values(
			offer.ID,
			offer.BusinessID,
			offer.CreatedBy,
			offer.Title,
			offer.Description,
			offer.Price,
			offer.ImageURL,
			offer.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert offer sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by identifier.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	stmt, args, err := r.builder.Select(offerColumns...).
		From("directory.offers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select offer sql: %w", err)
	}

	offer, err := scanOffer(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}

	return offer, nil
}

// Update modifies the mutable fields of an offer.
func (r *OfferRepository) Update(ctx context.Context, offer domain.Offer) error {
	stmt, args, err := r.builder.Update("directory.offers").
		Set("business_id", offer.BusinessID).
		Set("title", offer.Title).
		Set("description", offer.Description).
		Set("price", offer.Price).
		Set("image_url", offer.ImageURL).
		Where(squirrel.Eq{"id": offer.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update offer sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an offer; its redemptions cascade.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.offers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete offer sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns every offer, newest first.
func (r *OfferRepository) List(ctx context.Context) ([]domain.Offer, error) {
	stmt, args, err := r.builder.Select(offerColumns...).
		From("directory.offers").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list offers sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	offers := make([]domain.Offer, 0)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, *offer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}

	return offers, nil
}

var redemptionColumns = []string{
	"id",
	"offer_id",
	"user_id",
	"code",
	"redeemed_at",
}

func scanRedemption(row pgx.Row) (*domain.OfferRedemption, error) {
	var redemption domain.OfferRedemption
	if err := row.Scan(
		&redemption.ID,
		&redemption.OfferID,
		&redemption.UserID,
		&redemption.Code,
		&redemption.RedeemedAt,
	); err != nil {
		return nil, err
	}
	return &redemption, nil
}

// GetRedemption retrieves a redemption by its (user, offer) pair.
func (r *OfferRepository) GetRedemption(ctx context.Context, userID, offerID string) (*domain.OfferRedemption, error) {
	stmt, args, err := r.builder.Select(redemptionColumns...).
		From("directory.offer_redemptions").
		Where(squirrel.Eq{"user_id": userID, "offer_id": offerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select redemption sql: %w", err)
	}

	redemption, err := scanRedemption(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan redemption: %w", err)
	}

	return redemption, nil
}

// CreateRedemption inserts a redemption.
func (r *OfferRepository) CreateRedemption(ctx context.Context, redemption domain.OfferRedemption) error {
	stmt, args, err := r.builder.Insert("directory.offer_redemptions").
		Columns(redemptionColumns...).
		Values(
			redemption.ID,
			redemption.OfferID,
			redemption.UserID,
			redemption.Code,
			redemption.RedeemedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert redemption sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}

	return nil
}

// ListRedemptionsByUser returns a user's redemptions, newest first.
func (r *OfferRepository) ListRedemptionsByUser(ctx context.Context, userID string) ([]domain.OfferRedemption, error) {
	stmt, args, err := r.builder.Select(redemptionColumns...).
		From("directory.offer_redemptions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("redeemed_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list redemptions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query redemptions: %w", err)
	}
	defer rows.Close()

	redemptions := make([]domain.OfferRedemption, 0)
	for rows.Next() {
		redemption, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *redemption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions: %w", err)
	}

	return redemptions, nil
}

var _ port.OfferRepository = (*OfferRepository)(nil)
