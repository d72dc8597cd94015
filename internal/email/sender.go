package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/bondaralexcy/medical-diagnostic/pkg/circuitbreaker"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a single plain-text message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type smtpSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// logSender records messages instead of delivering them. The body is not
// logged since it may carry a password.
type logSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("mail delivery disabled, message dropped")
	return nil
}

// breakerSender stops dialing a failing SMTP server until the breaker resets.
type breakerSender struct {
	next Sender
	cb   *circuitbreaker.CircuitBreaker
}

func NewBreakerSender(next Sender, cb *circuitbreaker.CircuitBreaker) Sender {
	return &breakerSender{next: next, cb: cb}
}

func (s *breakerSender) Send(ctx context.Context, msg Message) error {
	return s.cb.Execute(func() error {
		return s.next.Send(ctx, msg)
	})
}
