package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jaffaexplorer/community-platform/internal/core/domain"
	"github.com/jaffaexplorer/community-platform/internal/infra/security"
)

func newPasswordResetService(t *testing.T, users *stubUserRepo, mail *stubMailer, events *stubEvents) *PasswordResetService {
	t.Helper()
	return NewPasswordResetService(
		testConfig(),
		users,
		security.DefaultPasswordValidator(),
		testStateTokens(t),
		mail,
		events,
		nopLogger(),
	).WithClock(testClock)
}

func TestRequestResetSendsLink(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	mail := &stubMailer{}
	svc := newPasswordResetService(t, repo, mail, &stubEvents{})

	if err := svc.RequestReset(context.Background(), " Maya@Example.com "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mail.sent))
	}
	if mail.sent[0].To[0] != user.Email {
		t.Fatalf("mail addressed to %q", mail.sent[0].To[0])
	}
	if !strings.Contains(mail.sent[0].Body, "/"+user.ID+"/") {
		t.Fatalf("reset mail lacks the link: %q", mail.sent[0].Body)
	}
}

func TestRequestResetUnknownEmail(t *testing.T) {
	svc := newPasswordResetService(t, newStubUserRepo(), &stubMailer{}, &stubEvents{})

	if err := svc.RequestReset(context.Background(), "nobody@example.com"); !errors.Is(err, ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}
}

func TestConfirmResetReplacesPassword(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	events := &stubEvents{}
	svc := newPasswordResetService(t, repo, &stubMailer{}, events)

	token := testStateTokens(t).Derive(user, security.PurposePasswordReset, testConfig().Token.ResetTTL)

	const next = "an entirely new phrase"
	if err := svc.ConfirmReset(context.Background(), user.ID, token, next, next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.users[user.ID]
	ok, err := security.VerifyPassword(next, stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password does not verify: ok=%v err=%v", ok, err)
	}
	if !stored.PasswordChangedAt.Equal(testNow) {
		t.Fatalf("expected password change stamped at %v, got %v", testNow, stored.PasswordChangedAt)
	}
	if !events.has("user.password_changed") {
		t.Fatal("expected user.password_changed event")
	}
}

func TestConfirmResetMismatchCheckedBeforeToken(t *testing.T) {
	svc := newPasswordResetService(t, newStubUserRepo(), &stubMailer{}, &stubEvents{})

	err := svc.ConfirmReset(context.Background(), "any", "garbage", "one phrase", "another phrase")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestConfirmResetUnknownUser(t *testing.T) {
	svc := newPasswordResetService(t, newStubUserRepo(), &stubMailer{}, &stubEvents{})

	err := svc.ConfirmReset(context.Background(), "missing", "token", "new phrase ok", "new phrase ok")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestConfirmResetTokenDiesWithOldHash(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	svc := newPasswordResetService(t, repo, &stubMailer{}, &stubEvents{})

	token := testStateTokens(t).Derive(user, security.PurposePasswordReset, testConfig().Token.ResetTTL)

	const next = "an entirely new phrase"
	if err := svc.ConfirmReset(context.Background(), user.ID, token, next, next); err != nil {
		t.Fatalf("first reset: %v", err)
	}

	// The hash changed, so the same link must not work twice.
	err := svc.ConfirmReset(context.Background(), user.ID, token, "yet another phrase", "yet another phrase")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestConfirmResetWeakPassword(t *testing.T) {
	user := newTestUser(t, domain.RoleVisitor, "correct horse battery")
	repo := newStubUserRepo(user)
	svc := newPasswordResetService(t, repo, &stubMailer{}, &stubEvents{})

	token := testStateTokens(t).Derive(user, security.PurposePasswordReset, testConfig().Token.ResetTTL)

	err := svc.ConfirmReset(context.Background(), user.ID, token, "12345678", "12345678")
	var policy *security.PasswordValidationError
	if !errors.As(err, &policy) {
		t.Fatalf("expected a password policy error, got %v", err)
	}
}
