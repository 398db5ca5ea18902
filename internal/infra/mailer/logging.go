package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/jaffaexplorer/community-platform/internal/core/port"
	"github.com/jaffaexplorer/community-platform/internal/infra/logger"
)

// LoggingMailer writes email contents to the log instead of sending.
// Used in development environments where no API key is configured.
type LoggingMailer struct {
	logger *zap.Logger
}

func NewLoggingMailer(log *zap.Logger) *LoggingMailer {
	return &LoggingMailer{logger: log}
}

func (m *LoggingMailer) Send(_ context.Context, email port.Email) error {
	masked := make([]string, 0, len(email.To))
	for _, to := range email.To {
		masked = append(masked, logger.MaskEmail(to))
	}
	m.logger.Info("email (not sent, logging mailer)",
		zap.Strings("to", masked),
		zap.String("subject", email.Subject),
		zap.String("body", email.Body),
	)
	return nil
}

var _ port.Mailer = (*LoggingMailer)(nil)
