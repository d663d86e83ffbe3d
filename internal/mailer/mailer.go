// Package mailer delivers queued emails over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/semzi/sledge/config"
	"github.com/semzi/sledge/pkg/queue"
)

// Mailer sends email payloads from the worker queue.
type Mailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// New creates a mailer.
func New(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one payload. With no SMTP host configured the message is
// logged and dropped, which keeps local development working without a
// mail server.
func (m *Mailer) Send(p queue.EmailPayload) error {
	if m.cfg.SMTPHost == "" {
		m.logger.Info("smtp not configured, skipping email",
			zap.String("to", p.RecipientEmail),
			zap.String("subject", p.Subject))
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromAddress)
	msg := []byte("From: " + from + "\r\n" +
		"To: " + p.RecipientEmail + "\r\n" +
		"Subject: " + p.Subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" + p.Body + "\r\n")

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{p.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
