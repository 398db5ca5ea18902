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

// PostRepository implements port.PostRepository using PostgreSQL.
type PostRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPostRepository wires a PostgreSQL-backed post repository.
func NewPostRepository(exec pgExecutor) *PostRepository {
	return &PostRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var postColumns = []string{"id", "user_id", "content", "image_url", "created_at"}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.ImageURL,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post domain.Post) error {
	stmt, args, err := r.builder.Insert("directory.posts").
		Columns(postColumns...).
		Values(post.ID, post.UserID, post.Content, post.ImageURL, post.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert post sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by identifier.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	stmt, args, err := r.builder.Select(postColumns...).
		From("directory.posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select post sql: %w", err)
	}

	post, err := scanPost(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return post, nil
}

// Update modifies the content of a post.
func (r *PostRepository) Update(ctx context.Context, post domain.Post) error {
	stmt, args, err := r.builder.Update("directory.posts").
		Set("content", post.Content).
		Set("image_url", post.ImageURL).
		Where(squirrel.Eq{"id": post.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a post. Likes, comments, and reports cascade.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns every post, newest first.
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, nil)
}

// ListByUser returns the posts authored by one user, newest first.
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]domain.Post, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID})
}

func (r *PostRepository) list(ctx context.Context, where squirrel.Eq) ([]domain.Post, error) {
	query := r.builder.Select(postColumns...).
		From("directory.posts").
		OrderBy("created_at DESC")

	if where != nil {
		query = query.Where(where)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Count returns the total number of posts.
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("directory.posts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count posts sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan posts count: %w", err)
	}

	return int(count), nil
}

// GetLike retrieves a like by its (user, post) pair.
func (r *PostRepository) GetLike(ctx context.Context, userID, postID string) (*domain.Like, error) {
	stmt, args, err := r.builder.Select("id", "post_id", "user_id", "created_at").
		From("directory.likes").
		Where(squirrel.Eq{"user_id": userID, "post_id": postID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select like sql: %w", err)
	}

	var like domain.Like
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&like.ID,
		&like.PostID,
		&like.UserID,
		&like.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan like: %w", err)
	}

	return &like, nil
}

// CreateLike inserts a like.
func (r *PostRepository) CreateLike(ctx context.Context, like domain.Like) error {
	stmt, args, err := r.builder.Insert("directory.likes").
		Columns("id", "post_id", "user_id", "created_at").
		Values(like.ID, like.PostID, like.UserID, like.CreatedAt).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert like sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// DeleteLike removes a like by its (user, post) pair.
func (r *PostRepository) DeleteLike(ctx context.Context, userID, postID string) error {
	stmt, args, err := r.builder.Delete("directory.likes").
		Where(squirrel.Eq{"user_id": userID, "post_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete like sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountLikes returns the number of likes on one post.
func (r *PostRepository) CountLikes(ctx context.Context, postID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("directory.likes").
		Where(squirrel.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count likes sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan likes count: %w", err)
	}

	return int(count), nil
}

// CreateComment inserts a comment on a post.
func (r *PostRepository) CreateComment(ctx context.Context, comment domain.Comment) error {
	stmt, args, err := r.builder.Insert("directory.comments").
		Columns("id", "post_id", "user_id", "content", "created_at").
		Values(comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// ListCommentsByPost returns the comments of a post, oldest first.
func (r *PostRepository) ListCommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	stmt, args, err := r.builder.Select("id", "post_id", "user_id", "content", "created_at").
		From("directory.comments").
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.UserID, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

// CreateReport inserts a report flagging a post.
func (r *PostRepository) CreateReport(ctx context.Context, report domain.Report) error {
	stmt, args, err := r.builder.Insert("directory.reports").
		Columns("id", "post_id", "reporter_id", "reason", "created_at").
		Values(report.ID, report.PostID, report.ReporterID, report.Reason, report.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// GetReport retrieves a report by identifier.
func (r *PostRepository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	stmt, args, err := r.builder.Select("id", "post_id", "reporter_id", "reason", "created_at").
		From("directory.reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report sql: %w", err)
	}

	var report domain.Report
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&report.ID,
		&report.PostID,
		&report.ReporterID,
		&report.Reason,
		&report.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	return &report, nil
}

// ListReports returns every open report, newest first.
func (r *PostRepository) ListReports(ctx context.Context) ([]domain.Report, error) {
	stmt, args, err := r.builder.Select("id", "post_id", "reporter_id", "reason", "created_at").
		From("directory.reports").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reports sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.Report, 0)
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(&report.ID, &report.PostID, &report.ReporterID, &report.Reason, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// DeleteReport removes a report.
func (r *PostRepository) DeleteReport(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("directory.reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete report sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteReportsByPost removes every report targeting one post.
func (r *PostRepository) DeleteReportsByPost(ctx context.Context, postID string) error {
	stmt, args, err := r.builder.Delete("directory.reports").
		Where(squirrel.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reports by post sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete reports by post: %w", err)
	}

	return nil
}

var _ port.PostRepository = (*PostRepository)(nil)
