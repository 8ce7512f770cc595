package repository

import (
	"context"
	"database/sql"
	"time"

	"authapi/internal/apperrors"
	"authapi/internal/db"
	"authapi/internal/models"
)

const DefaultResetTokenTTL = 15 * time.Minute

// Store groups the credential repositories and runs the multi-statement
// password reset operations inside transactions.
type Store struct {
	db       *sql.DB
	now      func() time.Time
	resetTTL time.Duration

	Users  UserRepository
	Resets PasswordResetRepository
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

func NewStore(conn *sql.DB, opts ...Option) *Store {
	s := &Store{db: conn, now: time.Now, resetTTL: DefaultResetTokenTTL}
	for _, opt := range opts {
		opt(s)
	}
	s.Users = NewUserRepository(conn)
	s.Resets = NewPasswordResetRepository(conn, s.now)
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreatePasswordResetToken replaces any tokens issued for email with a new
// one that expires after the configured TTL.
func (s *Store) CreatePasswordResetToken(ctx context.Context, email, token string) (*models.PasswordResetToken, error) {
	reset := &models.PasswordResetToken{
		Email:     email,
		Token:     token,
		ExpiresAt: s.now().Add(s.resetTTL),
	}

	err := db.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		resets := NewPasswordResetRepository(tx, s.now)
		if _, err := resets.DeleteByEmail(ctx, email); err != nil {
			return err
		}
		return resets.Insert(ctx, reset)
	})
	if err != nil {
		return nil, err
	}
	return reset, nil
}

// ConsumePasswordResetToken stores the new password hash for the token owner
// and deletes the token. If the token was already consumed the password
// change is rolled back and a NOT_FOUND error is returned.
func (s *Store) ConsumePasswordResetToken(ctx context.Context, reset *models.PasswordResetToken, passwordHash string) error {
	return db.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := NewUserRepository(tx).Update(ctx, reset.Email, "email", models.UserUpdate{Password: &passwordHash})
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFound("users")
		}

		n, err = NewPasswordResetRepository(tx, s.now).Delete(ctx, reset.Token)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.NotFound("password_resets")
		}
		return nil
	})
}
