package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/core/port"
)

func newModerationService(users *stubUserRepo, mail *stubMailer, events *stubEvents) *ModerationService {
	return NewModerationService(
		testConfig(),
		users,
		newStubSaleRepo(),
		newStubFavoriteRepo(),
		newStubPostRepo(),
		mail,
		events,
		nopLogger(),
	).WithClock(testClock)
}

func TestBanUserSetsConfiguredWindow(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	mail := &stubMailer{}
	events := &stubEvents{}
	svc := newModerationService(repo, mail, events)

	until, err := svc.BanUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := testNow.Add(testConfig().Moderation.BanDuration)
	if !until.Equal(want) {
		t.Fatalf("expected ban until %v, got %v", want, until)
	}

	stored := repo.users[user.ID]
	if stored.BannedUntil == nil || !stored.BannedUntil.Equal(want) {
		t.Fatalf("stored ban expiry %v, want %v", stored.BannedUntil, want)
	}
	if !stored.IsBanned(testNow) {
		t.Fatal("expected the account to be banned")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one suspension mail, got %d", len(mail.sent))
	}
	if !events.has("user.ban_changed") {
		t.Fatal("expected user.ban_changed event")
	}
}

func TestBanUserUnknownTarget(t *testing.T) {
	svc := newModerationService(newStubUserRepo(), &stubMailer{}, &stubEvents{})

	if _, err := svc.BanUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUnbanUserClearsExpiry(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	until := testNow.Add(48 * time.Hour)
	user.BannedUntil = &until
	repo := newStubUserRepo(user)
	events := &stubEvents{}
	svc := newModerationService(repo, &stubMailer{}, events)

	if err := svc.UnbanUser(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.users[user.ID]
	if stored.BannedUntil != nil {
		t.Fatalf("expected ban cleared, got %v", stored.BannedUntil)
	}
	if !events.has("user.ban_changed") {
		t.Fatal("expected user.ban_changed event")
	}
}

func TestApproveBusinessActivatesAccount(t *testing.T) {
	user := newTestUser(t, domain.RoleBusiness, "correct horse battery")
	user.Active = false
	user.Approved = false
	repo := newStubUserRepo(user)
	mail := &stubMailer{}
	events := &stubEvents{}
	svc := newModerationService(repo, mail, events)

	if err := svc.ApproveBusiness(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.users[user.ID]
	if !stored.Approved || !stored.Active {
		t.Fatalf("expected approved and active, got approved=%v active=%v", stored.Approved, stored.Active)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one approval mail, got %d", len(mail.sent))
	}
	if !events.has("business.reviewed") {
		t.Fatal("expected business.reviewed event")
	}
}

func TestApproveBusinessRejectsOtherRoles(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	svc := newModerationService(repo, &stubMailer{}, &stubEvents{})

	if err := svc.ApproveBusiness(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for a visitor target, got %v", err)
	}
}

func TestDeclineBusinessDeletesAndNotifies(t *testing.T) {
	user := newTestUser(t, domain.RoleBusiness, "correct horse battery")
	user.Approved = false
	repo := newStubUserRepo(user)
	mail := &stubMailer{}
	events := &stubEvents{}
	svc := newModerationService(repo, mail, events)

	if err := svc.DeclineBusiness(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := repo.users[user.ID]; ok {
		t.Fatal("expected the declined account to be deleted")
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0] != user.Email {
		t.Fatalf("expected a decline mail to %q, got %+v", user.Email, mail.sent)
	}
	if !events.has("business.reviewed") {
		t.Fatal("expected business.reviewed event")
	}
}

func TestDeleteUser(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	events := &stubEvents{}
	svc := newModerationService(repo, &stubMailer{}, events)

	if err := svc.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != user.ID {
		t.Fatalf("expected delete of %s, got %v", user.ID, repo.deletedIDs)
	}
	if !events.has("user.deleted") {
		t.Fatal("expected user.deleted event")
	}

	if err := svc.DeleteUser(context.Background(), user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on repeat delete, got %v", err)
	}
}

func TestListUsersStripsPasswordHashes(t *testing.T) {
	visitor := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	business := newTestUser(t, domain.RoleBusiness, "correct horse battery")
	business.Email = "cafe@example.com"
	repo := newStubUserRepo(visitor, business)
	svc := newModerationService(repo, &stubMailer{}, &stubEvents{})

	users, err := svc.ListUsers(context.Background(), port.UserFilter{Role: domain.RoleVisitor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one visitor, got %d", len(users))
	}
	if users[0].PasswordHash != "" {
		t.Fatal("password hash must not leave the service")
	}
}

func TestCounters(t *testing.T) {
	visitor := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	business := newTestUser(t, domain.RoleBusiness, "correct horse battery")
	business.Email = "cafe@example.com"
	repo := newStubUserRepo(visitor, business)

	sales := newStubSaleRepo(domain.Sale{ID: uuid.NewString(), BusinessID: business.ID})
	posts := newStubPostRepo(
		domain.Post{ID: uuid.NewString(), UserID: visitor.ID},
		domain.Post{ID: uuid.NewString(), UserID: business.ID},
	)

	svc := NewModerationService(
		testConfig(), repo, sales, newStubFavoriteRepo(), posts,
		&stubMailer{}, &stubEvents{}, nopLogger(),
	).WithClock(testClock)

	counters, err := svc.Counters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DashboardCounters{Users: 2, Visitors: 1, Businesses: 1, Sales: 1, Posts: 2}
	if counters != want {
		t.Fatalf("counters = %+v, want %+v", counters, want)
	}
}
