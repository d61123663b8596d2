// Package mailer delivers transactional email (verification codes) through
// SMTP, Amazon SES, or the application log.
package mailer

import (
	"context"
	"fmt"

	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/config"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a Message. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New selects the transport named by cfg.MailTransport.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (Sender, error) {
	switch cfg.MailTransport {
	case config.MailTransportSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword), nil
	case config.MailTransportSES:
		return NewSESSender(ctx, cfg.SESRegion, cfg.SESAccessKeyID, cfg.SESSecretAccessKey)
	case config.MailTransportLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.MailTransport)
	}
}
