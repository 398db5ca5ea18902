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

// ErrMessageNotFound indicates the contact message does not exist.
var ErrMessageNotFound = errors.New("contact message not found")

// ContactService stores contact-us messages and forwards them to the
// admin inbox.
type ContactService struct {
	cfg      *config.AppConfig
	contacts port.ContactRepository
	mailer   port.Mailer
	logger   *zap.Logger
	clock    func() time.Time
}

// NewContactService constructs a ContactService instance.
func NewContactService(cfg *config.AppConfig, contacts port.ContactRepository, mailer port.Mailer, log *zap.Logger) *ContactService {
	return &ContactService{cfg: cfg, contacts: contacts, mailer: mailer, logger: log, clock: time.Now}
}

// SendMessage records the message and forwards it by mail.
func (s *ContactService) SendMessage(ctx context.Context, userID, subject, message string) (*domain.ContactMessage, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	record := domain.ContactMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Subject:   subject,
		Message:   message,
		CreatedAt: s.clock().UTC(),
	}

	if err := s.contacts.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	body := fmt.Sprintf("From user: %s\n\n%s", userID, message)
	if err := s.mailer.Send(ctx, port.Email{
		To:      []string{s.cfg.Mail.AdminEmail},
		Subject: fmt.Sprintf("Contact form: %s", subject),
		Body:    body,
	}); err != nil {
		s.logger.Warn("contact mail failed", zap.Error(err))
	}

	return &record, nil
}

// ListMessages returns every stored message for the admin view.
func (s *ContactService) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	messages, err := s.contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

// DeleteMessage removes a handled message.
func (s *ContactService) DeleteMessage(ctx context.Context, id string) error {
	if err := s.contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
