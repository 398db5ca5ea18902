package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
)

func newPostService(posts *stubPostRepo, mail *stubMailer) *PostService {
	return NewPostService(testConfig(), posts, mail, nopLogger()).WithClock(testClock)
}

func TestCreatePostTrimsContent(t *testing.T) {
	posts := newStubPostRepo()
	svc := newPostService(posts, &stubMailer{})

	post, err := svc.CreatePost(context.Background(), "u1", "  hello jaffa  ", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Content != "hello jaffa" {
		t.Fatalf("content = %q", post.Content)
	}
	if !post.CreatedAt.Equal(testNow) {
		t.Fatalf("created at %v, want %v", post.CreatedAt, testNow)
	}
}

func TestCreatePostEmptyContent(t *testing.T) {
	svc := newPostService(newStubPostRepo(), &stubMailer{})

	if _, err := svc.CreatePost(context.Background(), "u1", "   ", nil); err == nil {
		t.Fatal("expected an error for empty content")
	}
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "original"})
	svc := newPostService(posts, &stubMailer{})

	if _, err := svc.UpdatePost(context.Background(), "u2", "p1", "hijacked", nil); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := svc.UpdatePost(context.Background(), "u1", "p1", "edited", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Content != "edited" {
		t.Fatalf("content = %q", updated.Content)
	}
}

func TestDeletePostAdminBypassesOwnership(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "spam"})
	posts.reports["r1"] = domain.Report{ID: "r1", PostID: "p1", ReporterID: "u2"}
	svc := newPostService(posts, &stubMailer{})

	if err := svc.DeletePost(context.Background(), "admin", domain.RoleAdmin, "p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts.posts) != 0 {
		t.Fatal("expected the post to be deleted")
	}
	if len(posts.reports) != 0 {
		t.Fatal("reports must be removed with the post")
	}
}

func TestDeletePostOwnershipEnforced(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "mine"})
	svc := newPostService(posts, &stubMailer{})

	if err := svc.DeletePost(context.Background(), "u2", domain.RoleVisitor, "p1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestToggleLike(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "hi"})
	svc := newPostService(posts, &stubMailer{})

	liked, err := svc.ToggleLike(context.Background(), "u2", "p1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatal("first toggle must like the post")
	}

	liked, err = svc.ToggleLike(context.Background(), "u2", "p1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatal("second toggle must remove the like")
	}
	if len(posts.likes) != 0 {
		t.Fatalf("expected no like rows, got %d", len(posts.likes))
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	svc := newPostService(newStubPostRepo(), &stubMailer{})

	if _, err := svc.ToggleLike(context.Background(), "u1", "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestFeedCarriesLikesAndComments(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "hi"})
	svc := newPostService(posts, &stubMailer{})

	if _, err := svc.ToggleLike(context.Background(), "u2", "p1"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.AddComment(context.Background(), "u3", "p1", "welcome"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	feed, err := svc.ListFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected one post, got %d", len(feed))
	}
	if feed[0].Likes != 1 {
		t.Fatalf("likes = %d", feed[0].Likes)
	}
	if len(feed[0].Comments) != 1 || feed[0].Comments[0].Content != "welcome" {
		t.Fatalf("comments = %+v", feed[0].Comments)
	}
}

func TestReportPostMailsAdmin(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "spam"})
	mail := &stubMailer{}
	svc := newPostService(posts, mail)

	report, err := svc.ReportPost(context.Background(), "u2", "p1", "  offensive ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Reason != "offensive" {
		t.Fatalf("reason = %q", report.Reason)
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0] != "admin@example.com" {
		t.Fatalf("expected a mail to the admin, got %+v", mail.sent)
	}
}

func TestResolveReportDeletesPost(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "spam"})
	svc := newPostService(posts, &stubMailer{})

	if _, err := svc.ReportPost(context.Background(), "u2", "p1", "spam"); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := svc.ReportPost(context.Background(), "u3", "p1", "also spam"); err != nil {
		t.Fatalf("report: %v", err)
	}

	reports, err := svc.ListReports(context.Background())
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(reports))
	}

	if err := svc.ResolveReport(context.Background(), reports[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts.posts) != 0 {
		t.Fatal("expected the reported post to be deleted")
	}
	if len(posts.reports) != 0 {
		t.Fatal("every report against the post must be dropped")
	}
}

func TestDismissReportKeepsPost(t *testing.T) {
	posts := newStubPostRepo(domain.Post{ID: "p1", UserID: "u1", Content: "fine"})
	svc := newPostService(posts, &stubMailer{})

	report, err := svc.ReportPost(context.Background(), "u2", "p1", "disagree")
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if err := svc.DismissReport(context.Background(), report.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts.posts) != 1 {
		t.Fatal("dismissing a report must not delete the post")
	}
	if err := svc.DismissReport(context.Background(), report.ID); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
