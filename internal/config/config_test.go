package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CLIENT_URL", "https://jobs.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 48*time.Hour, cfg.Invite.TTL)
	require.Equal(t, "https://jobs.example.com", cfg.App.ClientURL)
	require.Equal(t, "notifications:outbox", cfg.Notification.OutboxKey)
	require.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INVITE_TTL", "72h")
	t.Setenv("AUTH_BCRYPT_COST", "1")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 72*time.Hour, cfg.Invite.TTL)
	require.Equal(t, bcrypt.MinCost, cfg.Auth.BcryptCost)
	require.Zero(t, cfg.App.RequestTimeout())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero invite ttl", env: map[string]string{"INVITE_TTL": "0s"}},
		{name: "negative access ttl", env: map[string]string{"AUTH_ACCESS_TOKEN_TTL_MINUTES": "-5"}},
		{name: "default secret in production", env: map[string]string{"APP_ENV": "production", "AUTH_JWT_SECRET": "dev-secret"}},
		{name: "unparseable int", env: map[string]string{"REDIS_DB": "primary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
