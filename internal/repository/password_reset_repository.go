package repository

import (
	"context"
	"time"

	"authapi/internal/apperrors"
	"authapi/internal/db"
	"authapi/internal/models"
)

var passwordResetColumns = []string{"email", "token", "expires_at"}

type PasswordResetRepository interface {
	Insert(ctx context.Context, token *models.PasswordResetToken) error
	GetValid(ctx context.Context, token string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, token string) (int64, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}

type passwordResetRepository struct {
	table *db.Table
	now   func() time.Time
}

func NewPasswordResetRepository(conn db.DBTX, now func() time.Time) PasswordResetRepository {
	if now == nil {
		now = time.Now
	}
	return &passwordResetRepository{table: db.NewTable(conn, "password_resets", "token"), now: now}
}

func (r *passwordResetRepository) Insert(ctx context.Context, token *models.PasswordResetToken) error {
	_, err := r.table.Insert(ctx, db.Values{
		"email":      token.Email,
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	})
	return err
}

// GetValid returns the token only while it has not expired. Expired rows are
// left in place and reported as not found.
func (r *passwordResetRepository) GetValid(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.table.GetByCondition(ctx, db.Values{"token": token}, passwordResetColumns, "expires_at > NOW()").
		Scan(&t.Email, &t.Token, &t.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if t.Expired(r.now()) {
		return nil, apperrors.NotFound(r.table.Name())
	}
	return &t, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, token string) (int64, error) {
	return r.table.DeleteByCondition(ctx, db.Values{"token": token})
}

func (r *passwordResetRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	return r.table.DeleteByCondition(ctx, db.Values{"email": email})
}
