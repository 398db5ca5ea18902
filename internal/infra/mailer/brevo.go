package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/config"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer delivers transactional email via the Brevo (Sendinblue)
// HTTP API v3.
type BrevoMailer struct {
	apiKey      string
	senderEmail string
	senderName  string
	client      *http.Client
	logger      *zap.Logger
}

// NewBrevoMailer constructs a mailer from the mail settings.
func NewBrevoMailer(cfg config.MailSettings, log *zap.Logger) (*BrevoMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mail api key is required")
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("mail sender email is required")
	}
	return &BrevoMailer{
		apiKey:      cfg.APIKey,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      log,
	}, nil
}

// Send posts the email to the Brevo API.
func (m *BrevoMailer) Send(ctx context.Context, email port.Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	recipients := make([]map[string]string, 0, len(email.To))
	for _, to := range email.To {
		recipients = append(recipients, map[string]string{"email": to})
	}

	payload := map[string]any{
		"sender":      map[string]string{"name": m.senderName, "email": m.senderEmail},
		"to":          recipients,
		"subject":     email.Subject,
		"textContent": email.Body,
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, &body)
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail delivery failed with status %d", resp.StatusCode)
	}

	m.logger.Info("email sent",
		zap.String("to", logger.MaskEmail(email.To[0])),
		zap.String("subject", email.Subject),
	)
	return nil
}

var _ port.Mailer = (*BrevoMailer)(nil)
