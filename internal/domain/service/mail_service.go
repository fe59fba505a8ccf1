package service

import "context"

// Message is an outbound email
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// MailService defines the interface for sending email
type MailService interface {
	// Send delivers a message and returns the transport message ID
	Send(ctx context.Context, msg *Message) (string, error)
}
