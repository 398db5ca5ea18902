package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestSendMessageStoresAndForwards(t *testing.T) {
	contacts := &stubContactRepo{}
	mail := &stubMailer{}
	svc := NewContactService(testConfig(), contacts, mail, nopLogger())

	record, err := svc.SendMessage(context.Background(), "u1", "  Broken link  ", " The sales page 404s. ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.Subject != "Broken link" || record.Message != "The sales page 404s." {
		t.Fatalf("record = %+v", record)
	}
	if len(contacts.messages) != 1 {
		t.Fatalf("expected one stored message, got %d", len(contacts.messages))
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0] != "admin@example.com" {
		t.Fatalf("expected a forward to the admin, got %+v", mail.sent)
	}
}

func TestSendMessageMailFailureIsNotFatal(t *testing.T) {
	contacts := &stubContactRepo{}
	mail := &stubMailer{err: errors.New("smtp down")}
	svc := NewContactService(testConfig(), contacts, mail, nopLogger())

	if _, err := svc.SendMessage(context.Background(), "u1", "Hi", "Hello"); err != nil {
		t.Fatalf("mail failure must not fail the request: %v", err)
	}
	if len(contacts.messages) != 1 {
		t.Fatal("the message must still be stored")
	}
}

func TestSendMessageRequiresSubjectAndBody(t *testing.T) {
	svc := NewContactService(testConfig(), &stubContactRepo{}, &stubMailer{}, nopLogger())

	if _, err := svc.SendMessage(context.Background(), "u1", "  ", "body"); err == nil {
		t.Fatal("expected an error for empty subject")
	}
	if _, err := svc.SendMessage(context.Background(), "u1", "subject", "  "); err == nil {
		t.Fatal("expected an error for empty message")
	}
}

func TestDeleteMessage(t *testing.T) {
	contacts := &stubContactRepo{}
	svc := NewContactService(testConfig(), contacts, &stubMailer{}, nopLogger())

	record, err := svc.SendMessage(context.Background(), "u1", "Hi", "Hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.DeleteMessage(context.Background(), record.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteMessage(context.Background(), record.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
