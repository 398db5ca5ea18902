package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    pgPool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool pgPool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"password_algo",
	"role",
	"is_active",
	"approved",
	"banned_until",
	"registered_at",
	"password_changed_at",
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordAlgo,
		&user.Role,
		&user.Active,
		&user.Approved,
		&user.BannedUntil,
		&user.RegisteredAt,
		&user.PasswordChangedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("directory.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.PasswordAlgo,
			user.Role,
			user.Active,
			user.Approved,
			user.BannedUntil,
			user.RegisteredAt,
			user.PasswordChangedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// CreateVisitor inserts the user and its visitor profile in one transaction.
func (r *UserRepository) CreateVisitor(ctx context.Context, user domain.User, profile domain.VisitorProfile) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		stmt, args, err := r.builder.Insert("directory.visitor_profiles").
			Columns("id", "user_id", "phone_number", "image_url").
			Values(profile.ID, profile.UserID, profile.PhoneNumber, profile.ImageURL).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert visitor profile sql: %w", err)
		}

		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert visitor profile: %w", err)
		}

		return nil
	})
}

// CreateBusiness inserts the user and its business profile in one transaction.
func (r *UserRepository) CreateBusiness(ctx context.Context, user domain.User, profile domain.BusinessProfile) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		stmt, args, err := r.builder.Insert("directory.business_profiles").
			Columns(
				"id",
				"user_id",
				"business_name",
				"category",
				"description",
				"phone",
				"location",
				"in_area",
				"image_url",
			).
			Values(
				profile.ID,
				profile.UserID,
				profile.BusinessName,
				profile.Category,
				profile.Description,
				profile.Phone,
				profile.Location,
				profile.InArea,
				profile.ImageURL,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert business profile sql: %w", err)
		}

		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert business profile: %w", err)
		}

		return nil
	})
}

func (r *UserRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("directory.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by the email login handle.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("directory.users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user by email: %w", err)
	}

	return user, nil
}

// List returns users with optional filtering and pagination.
func (r *UserRepository) List(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	query := r.builder.Select(userColumns...).
		From("directory.users").
		OrderBy("registered_at DESC")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.Active})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users matching the filter.
func (r *UserRepository) Count(ctx context.Context, filter port.UserFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("directory.users")

	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Active != nil {
		query = query.Where(squirrel.Eq{"is_active": *filter.Active})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan users count: %w", err)
	}

	return int(count), nil
}

// UpdateActive sets the active flag for a user.
func (r *UserRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	stmt, args, err := r.builder.Update("directory.users").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update active sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update active: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateApproval sets both approval and active flags in one statement.
func (r *UserRepository) UpdateApproval(ctx context.Context, id string, approved, active bool) error {
	stmt, args, err := r.builder.Update("directory.users").
		Set("approved", approved).
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update approval sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update approval: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateBan sets or clears the ban expiry for a user.
func (r *UserRepository) UpdateBan(ctx context.Context, id string, bannedUntil *time.Time) error {
	stmt, args, err := r.builder.Update("directory.users").
		Set("banned_until", bannedUntil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update ban sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update ban: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword updates a user's password hash, algorithm, and change timestamp.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash, passwordAlgo string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("directory.users").
		Set("password_hash", passwordHash).
		Set("password_algo", passwordAlgo).
		Set("password_changed_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete hard-deletes the user. Profiles and owned content cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
