package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/dclair/task-master/internal/config"
)

// Mailer sends a single plain-text email. Delivery failures are returned to
// the caller, which decides whether they are fatal (they never are for
// signup: the account is created regardless).
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay with STARTTLS
type SMTPMailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer for the configured relay
func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. Blocking; callers on the request path treat
// errors as non-fatal.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	m.logger.Debug("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// LogMailer logs messages instead of delivering them. Used when no SMTP
// credentials are configured (local development).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and reports success
func (m *LogMailer) Send(to, subject, body string) error {
	m.logger.Info("Email suppressed (no SMTP configuration)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
