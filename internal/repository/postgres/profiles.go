package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProfileRepository wires a PostgreSQL-backed profile repository.
func NewProfileRepository(exec pgExecutor) *ProfileRepository {
	return &ProfileRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetVisitorByUserID retrieves the visitor profile owned by a user.
func (r *ProfileRepository) GetVisitorByUserID(ctx context.Context, userID string) (*domain.VisitorProfile, error) {
	stmt, args, err := r.builder.Select("id", "user_id", "phone_number", "image_url").
		From("directory.visitor_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select visitor profile sql: %w", err)
	}

	var profile domain.VisitorProfile
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.PhoneNumber,
		&profile.ImageURL,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan visitor profile: %w", err)
	}

	return &profile, nil
}

// UpdateVisitor modifies the mutable fields of a visitor profile.
func (r *ProfileRepository) UpdateVisitor(ctx context.Context, profile domain.VisitorProfile) error {
	stmt, args, err := r.builder.Update("directory.visitor_profiles").
		Set("phone_number", profile.PhoneNumber).
		Set("image_url", profile.ImageURL).
		Where(squirrel.Eq{"id": profile.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update visitor profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update visitor profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var businessColumns = []string{
	"id",
	"user_id",
	"business_name",
	"category",
	"description",
	"phone",
	"location",
	"in_area",
	"image_url",
}

func scanBusiness(row pgx.Row) (*domain.BusinessProfile, error) {
	var profile domain.BusinessProfile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.BusinessName,
		&profile.Category,
		&profile.Description,
		&profile.Phone,
		&profile.Location,
		&profile.InArea,
		&profile.ImageURL,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetBusinessByUserID retrieves the business profile owned by a user.
func (r *ProfileRepository) GetBusinessByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error) {
	return r.getBusiness(ctx, squirrel.Eq{"user_id": userID})
}

// GetBusinessByID retrieves a business profile by its own identifier.
func (r *ProfileRepository) GetBusinessByID(ctx context.Context, id string) (*domain.BusinessProfile, error) {
	return r.getBusiness(ctx, squirrel.Eq{"id": id})
}

func (r *ProfileRepository) getBusiness(ctx context.Context, where squirrel.Eq) (*domain.BusinessProfile, error) {
	stmt, args, err := r.builder.Select(businessColumns...).
		From("directory.business_profiles").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select business profile sql: %w", err)
	}

	profile, err := scanBusiness(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan business profile: %w", err)
	}

	return profile, nil
}

// UpdateBusiness modifies the mutable fields of a business profile.
func (r *ProfileRepository) UpdateBusiness(ctx context.Context, profile domain.BusinessProfile) error {
	stmt, args, err := r.builder.Update("directory.business_profiles").
		Set("business_name", profile.BusinessName).
		Set("category", profile.Category).
		Set("description", profile.Description).
		Set("phone", profile.Phone).
		Set("location", profile.Location).
		Set("image_url", profile.ImageURL).
		Where(squirrel.Eq{"id": profile.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update business profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update business profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListApprovedBusinesses returns profiles of approved active businesses,
// optionally filtered by category.
func (r *ProfileRepository) ListApprovedBusinesses(ctx context.Context, category string) ([]domain.BusinessProfile, error) {
	query := r.builder.Select(
		"p.id",
		"p.user_id",
		"p.business_name",
		"p.category",
		"p.description",
		"p.phone",
		"p.location",
		"p.in_area",
		"p.image_url",
	).
		From("directory.business_profiles p").
		Join("directory.users u ON u.id = p.user_id").
		Where(squirrel.Eq{"u.approved": true, "u.is_active": true}).
		OrderBy("p.business_name ASC")

	if category != "" {
		query = query.Where(squirrel.Eq{"LOWER(p.category)": strings.ToLower(category)})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list businesses sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer rows.Close()

	profiles := make([]domain.BusinessProfile, 0)
	for rows.Next() {
		profile, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}

	return profiles, nil
}

// ListGallery returns the gallery images of a business, newest first.
func (r *ProfileRepository) ListGallery(ctx context.Context, businessID string) ([]domain.GalleryImage, error) {
	stmt, args, err := r.builder.Select("id", "business_id", "image_url", "uploaded_at").
		From("directory.gallery_images").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list gallery sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query gallery: %w", err)
	}
	defer rows.Close()

	images := make([]domain.GalleryImage, 0)
	for rows.Next() {
		var image domain.GalleryImage
		if err := rows.Scan(&image.ID, &image.BusinessID, &image.ImageURL, &image.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gallery: %w", err)
	}

	return images, nil
}

// AddGalleryImage inserts an image into a business gallery.
func (r *ProfileRepository) AddGalleryImage(ctx context.Context, image domain.GalleryImage) error {
	stmt, args, err := r.builder.Insert("directory.gallery_images").
		Columns("id", "business_id", "image_url", "uploaded_at").
		Values(image.ID, image.BusinessID, image.ImageURL, image.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert gallery image sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert gallery image: %w", err)
	}

	return nil
}

// DeleteGalleryImage removes an image only when owned by the given business.
func (r *ProfileRepository) DeleteGalleryImage(ctx context.Context, id, businessID string) error {
	stmt, args, err := r.builder.Delete("directory.gallery_images").
		Where(squirrel.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete gallery image sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.ProfileRepository = (*ProfileRepository)(nil)
