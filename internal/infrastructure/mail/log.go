package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/provat/codetriage/internal/domain/service"
	"github.com/provat/codetriage/pkg/logger"
)

// LogMailer is a development transport that logs instead of sending.
// Used when no SMTP host is configured.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer creates a log-only mailer
func NewLogMailer() service.MailService {
	return &LogMailer{
		log: logger.Get().WithFields(logger.Component("mail")),
	}
}

// Send logs the message and returns a synthetic message ID
func (m *LogMailer) Send(_ context.Context, msg *service.Message) (string, error) {
	messageID := fmt.Sprintf("dev-%d", time.Now().UnixNano())
	m.log.Info("Email (dev mode, not sent)",
		logger.String("to", msg.To),
		logger.String("subject", msg.Subject),
		logger.String("message_id", messageID),
		logger.Int("body_bytes", len(msg.TextBody)),
	)
	return messageID, nil
}
