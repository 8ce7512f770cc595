package services

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPNotifier struct {
	dialer Dialer
	from   string
}

func NewSMTPNotifier(host string, port int, user, password, from string) *SMTPNotifier {
	return &SMTPNotifier{dialer: gomail.NewDialer(host, port, user, password), from: from}
}

func NewSMTPNotifierWithDialer(dialer Dialer, from string) *SMTPNotifier {
	return &SMTPNotifier{dialer: dialer, from: from}
}

func (s *SMTPNotifier) SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Reset your password")

	minutes := int(time.Until(expiresAt).Round(time.Minute).Minutes())
	body := fmt.Sprintf("Use this token to reset your password:\n\n%s\n\nThis token expires in %d minutes.", token, minutes)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
