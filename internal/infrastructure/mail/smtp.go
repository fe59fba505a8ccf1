package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

// SMTPMailer implements the MailService interface over SMTP
type SMTPMailer struct {
	client *gomail.Client
	from   string
	log    *logger.Logger
}

// NewSMTPMailer creates a mailer backed by the configured SMTP relay
func NewSMTPMailer(cfg *config.MailConfig) (service.MailService, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to create smtp client")
	}

	return &SMTPMailer{
		client: client,
		from:   cfg.From,
		log:    logger.Get().WithFields(logger.Component("mail")),
	}, nil
}

// Send delivers a message and returns its message ID
func (m *SMTPMailer) Send(ctx context.Context, msg *service.Message) (string, error) {
	mail := gomail.NewMsg()
	if err := mail.From(m.from); err != nil {
		return "", apperror.TransportError("mail", err)
	}
	if err := mail.To(msg.To); err != nil {
		return "", apperror.TransportError("mail", err)
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		mail.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLBody)
	}

	if err := m.client.DialAndSendWithContext(ctx, mail); err != nil {
		m.log.Error("Failed to deliver email",
			logger.Error(err),
			logger.String("to", msg.To),
		)
		return "", apperror.TransportError("mail", err)
	}

	messageID := mail.GetMessageID()
	m.log.Debug("Email delivered",
		logger.String("to", msg.To),
		logger.String("message_id", messageID),
	)
	return messageID, nil
}
