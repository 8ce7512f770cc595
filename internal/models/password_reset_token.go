package models

import "time"

type PasswordResetToken struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
