package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "user-1", Role: domain.RoleRecruiter}

	token, exp, err := tm.GenerateToken(user)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, domain.RoleRecruiter, claims.Role)
}

func TestTokenRejections(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "user-1", Role: domain.RoleOwner}
	issuer := NewTokenManager("secret", time.Hour)
	token, _, err := issuer.GenerateToken(user)
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).ParseToken(token)
	require.Error(t, err)

	expired := NewTokenManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = issuer.ParseToken(old)
	require.Error(t, err)

	_, err = issuer.ParseToken("not.a.jwt")
	require.Error(t, err)
}
