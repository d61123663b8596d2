package mailer

import (
	"context"

	"github.com/sarkie/sarkie-backend/internal/logging"
)

// LogSender writes messages to the log instead of delivering them.
// Development only: the body includes the verification code.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "mail not delivered (log transport)",
		"to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
