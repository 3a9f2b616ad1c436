package tokenutil

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "default size", size: DefaultSize},
		{name: "small", size: 8},
		{name: "zero", size: 0, wantErr: true},
		{name: "negative", size: -1, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := GenerateToken(tt.size)
			if tt.wantErr {
				require.Error(t, err)
				require.Empty(t, token)
				return
			}
			require.NoError(t, err)
			raw, err := base64.RawURLEncoding.DecodeString(token)
			require.NoError(t, err)
			require.Len(t, raw, tt.size)
		})
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		token, err := GenerateToken(DefaultSize)
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token generated")
		seen[token] = struct{}{}
	}
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("invite-token")
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("invite-token"))
	require.NotEqual(t, fp, FingerprintToken("invite-token2"))
	require.NotContains(t, fp, "invite-token")

	require.True(t, MatchesFingerprint("invite-token", fp))
	require.False(t, MatchesFingerprint("other", fp))
}
