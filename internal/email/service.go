package email

import (
	"context"
	"fmt"

	"github.com/bondaralexcy/medical-diagnostic/pkg/metrics"
)

// Mail kinds, used as metric labels.
const (
	KindActivation    = "activation"
	KindPasswordReset = "password_reset"
	KindCustom        = "custom"
)

// Service composes the account mails and hands them to a Sender.
type Service interface {
	SendActivation(ctx context.Context, to string, link string) error
	SendPasswordReset(ctx context.Context, to string, password string) error
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type service struct {
	sender  Sender
	from    string
	metrics *metrics.Metrics
}

func NewService(sender Sender, from string, m *metrics.Metrics) Service {
	return &service{sender: sender, from: from, metrics: m}
}

func (s *service) SendActivation(ctx context.Context, to string, link string) error {
	return s.send(ctx, KindActivation, Message{
		From:    s.from,
		To:      to,
		Subject: "Email confirmation",
		Body:    fmt.Sprintf("Hello! Follow the link to confirm your email address: %s", link),
	})
}

func (s *service) SendPasswordReset(ctx context.Context, to string, password string) error {
	return s.send(ctx, KindPasswordReset, Message{
		From:    s.from,
		To:      to,
		Subject: "Password recovery",
		Body:    fmt.Sprintf("Your new password: %s", password),
	})
}

func (s *service) SendCustom(ctx context.Context, to string, subject string, content string) error {
	return s.send(ctx, KindCustom, Message{From: s.from, To: to, Subject: subject, Body: content})
}

func (s *service) send(ctx context.Context, kind string, msg Message) error {
	err := s.sender.Send(ctx, msg)
	s.metrics.MailSent(kind, err)
	if err != nil {
		return fmt.Errorf("failed to send %s mail: %w", kind, err)
	}
	return nil
}
