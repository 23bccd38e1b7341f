// Package mail delivers transactional e-mail such as signup confirmations.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	gomail "github.com/go-mail/mail"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Message is a rendered e-mail
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewSMTPSender creates an SMTPSender. Port 465 uses implicit TLS, other ports
// negotiate STARTTLS when the server offers it.
func NewSMTPSender(cfg config.MailConfig, log *zap.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	d.SSL = cfg.Port == 465
	return &SMTPSender{
		dialer: d,
		from:   cfg.From,
		log:    log.Named("smtp"),
	}
}

// Send builds a multipart/alternative message and delivers it
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := buildMessage(s.from, msg)

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.WithLogger(ctx, s.log).Error("smtp send failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.WithLogger(ctx, s.log).Info("email sent", zap.String("to", msg.To))
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}

// LogSender writes messages to the log instead of sending them.
// Used when no SMTP host is configured.
type LogSender struct {
	log *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("mail")}
}

// Send logs the message
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	logger.WithLogger(ctx, s.log).Info("email not sent, smtp disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}

// NewSender returns an SMTP sender when a host is configured, otherwise a LogSender
func NewSender(cfg config.MailConfig, log *zap.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg, log)
}
