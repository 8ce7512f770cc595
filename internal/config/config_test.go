package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PSQL_HOST", "db")
	t.Setenv("PSQL_DB_NAME", "auth_test")

	cfg := Load()

	assert.Equal(t, "postgres://postgres:postgres@db:5432/auth_test?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.AuthReturnResetToken)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@h/x")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("AUTH_RETURN_RESET_TOKEN", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("BCRYPT_COST", "nope")

	cfg := Load()

	assert.Equal(t, "postgres://u:p@h/x", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.False(t, cfg.AuthReturnResetToken)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Environment: "production", JWTExpiresIn: time.Hour, ResetTokenTTL: time.Minute}
	require.Error(t, cfg.Validate())

	cfg.Environment = "development"
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.JWTSecret)

	cfg.ResetTokenTTL = 0
	assert.Error(t, cfg.Validate())
}
