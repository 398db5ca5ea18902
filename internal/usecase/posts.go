package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/repository"
)

var (
	// ErrPostNotFound indicates the post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrReportNotFound indicates the report does not exist.
	ErrReportNotFound = errors.New("report not found")
)

// PostWithStats pairs a post with its like count and comments for feed
// responses.
type PostWithStats struct {
	Post     domain.Post
	Likes    int
	Comments []domain.Comment
}

// PostService implements the community feed: posts, likes, comments,
// and the report queue.
type PostService struct {
	cfg    *config.AppConfig
	posts  port.PostRepository
	mailer port.Mailer
	logger *zap.Logger
	clock  func() time.Time
}

// NewPostService constructs a PostService instance.
func NewPostService(cfg *config.AppConfig, posts port.PostRepository, mailer port.Mailer, log *zap.Logger) *PostService {
	return &PostService{cfg: cfg, posts: posts, mailer: mailer, logger: log, clock: time.Now}
}

// WithClock overrides the time source for tests.
func (s *PostService) WithClock(clock func() time.Time) *PostService {
	s.clock = clock
	return s
}

// CreatePost publishes a feed post for the caller.
func (s *PostService) CreatePost(ctx context.Context, userID, content string, imageURL *string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	post := domain.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &post, nil
}

func (s *PostService) getPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// UpdatePost edits a post owned by the caller.
func (s *PostService) UpdatePost(ctx context.Context, userID, postID, content string, imageURL *string) (*domain.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotOwner
	}

	post.Content = content
	if imageURL != nil {
		post.ImageURL = imageURL
	}

	if err := s.posts.Update(ctx, *post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return post, nil
}

// DeletePost removes a post. Admins may delete any post; others only
// their own. Reports against the post are removed with it.
func (s *PostService) DeletePost(ctx context.Context, userID string, role domain.Role, postID string) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && post.UserID != userID {
		return ErrNotOwner
	}

	if err := s.posts.DeleteReportsByPost(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post reports: %w", err)
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}

func (s *PostService) withStats(ctx context.Context, posts []domain.Post) ([]PostWithStats, error) {
	feed := make([]PostWithStats, 0, len(posts))
	for _, post := range posts {
		likes, err := s.posts.CountLikes(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("count likes: %w", err)
		}
		comments, err := s.posts.ListCommentsByPost(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		feed = append(feed, PostWithStats{Post: post, Likes: likes, Comments: comments})
	}
	return feed, nil
}

// ListFeed returns every post with its likes and comments.
func (s *PostService) ListFeed(ctx context.Context) ([]PostWithStats, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.withStats(ctx, posts)
}

// ListOwnPosts returns the caller's posts with their likes and comments.
func (s *PostService) ListOwnPosts(ctx context.Context, userID string) ([]PostWithStats, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own posts: %w", err)
	}
	return s.withStats(ctx, posts)
}

// ToggleLike likes the post, or removes the caller's existing like.
// Returns true when the post ends up liked.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return false, err
	}

	_, err := s.posts.GetLike(ctx, userID, postID)
	switch {
	case err == nil:
		if err := s.posts.DeleteLike(ctx, userID, postID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		like := domain.Like{
			ID:        uuid.NewString(),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: s.clock().UTC(),
		}
		if err := s.posts.CreateLike(ctx, like); err != nil {
			return false, fmt.Errorf("create like: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("get like: %w", err)
	}
}

// AddComment attaches a comment to a post.
func (s *PostService) AddComment(ctx context.Context, userID, postID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.posts.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return &comment, nil
}

// ReportPost flags a post for admin review and mails the admin inbox.
func (s *PostService) ReportPost(ctx context.Context, userID, postID, reason string) (*domain.Report, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	report := domain.Report{
		ID:         uuid.NewString(),
		PostID:     postID,
		ReporterID: userID,
		Reason:     strings.TrimSpace(reason),
		CreatedAt:  s.clock().UTC(),
	}

	if err := s.posts.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	body := fmt.Sprintf(
		"A post has been reported.\n\nPost ID: %s\nReason: %s\nReport ID: %s",
		postID, report.Reason, report.ID,
	)
	if err := s.mailer.Send(ctx, port.Email{
		To:      []string{s.cfg.Mail.AdminEmail},
		Subject: "Post reported",
		Body:    body,
	}); err != nil {
		s.logger.Warn("report mail failed", zap.Error(err))
	}

	return &report, nil
}

// ListReports returns the admin report queue.
func (s *PostService) ListReports(ctx context.Context) ([]domain.Report, error) {
	reports, err := s.posts.ListReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// DismissReport drops a report without touching the post.
func (s *PostService) DismissReport(ctx context.Context, reportID string) error {
	if err := s.posts.DeleteReport(ctx, reportID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// ResolveReport deletes the reported post along with every report
// against it.
func (s *PostService) ResolveReport(ctx context.Context, reportID string) error {
	report, err := s.posts.GetReport(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("get report: %w", err)
	}

	if err := s.posts.DeleteReportsByPost(ctx, report.PostID); err != nil {
		return fmt.Errorf("delete post reports: %w", err)
	}

	if err := s.posts.Delete(ctx, report.PostID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete reported post: %w", err)
	}

	return nil
}
