package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail"
	"github.com/hibiken/asynq"
)

// Mailer delivers queued transactional emails over SMTP.
type Mailer struct {
	host   string
	port   int
	from   string
	user   string
	pass   string
	logger *slog.Logger
}

// NewMailer constructs a Mailer.
func NewMailer(host string, port int, from, user, pass string, logger *slog.Logger) *Mailer {
	return &Mailer{host: host, port: port, from: from, user: user, pass: pass, logger: logger}
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks. A malformed payload
// is dropped instead of retried.
func (m *Mailer) HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", payload.To)
	msg.SetHeader("Subject", payload.Subject)
	msg.SetBody("text/plain", payload.Body)

	dialer := mail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("smtp send failed", slog.String("to", payload.To), slog.Any("error", err))
		return fmt.Errorf("jobs: smtp send: %w", err)
	}

	m.logger.Info("email sent", slog.String("to", payload.To), slog.String("subject", payload.Subject))
	return nil
}
