package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ResetNotifier delivers a password reset token to the account owner.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error
}

// LogNotifier writes reset tokens to the log instead of sending them. It is
// used when no SMTP server is configured.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) SendPasswordReset(_ context.Context, email, token string, expiresAt time.Time) error {
	n.Logger.Info().
		Str("email", email).
		Str("reset_token", token).
		Time("expires_at", expiresAt).
		Msg("Password reset token issued (no mailer configured)")
	return nil
}
