package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, ToDomainError(nil))
		require.NoError(t, MapError(nil))
	})

	t.Run("domain error passes through wrapping", func(t *testing.T) {
		t.Parallel()
		wrapped := fmt.Errorf("outer: %w", NewNotAuthorized())
		de := ToDomainError(wrapped)
		require.Equal(t, CodeNotAuthorized, de.Code)
		require.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("unknown errors hide their message", func(t *testing.T) {
		t.Parallel()
		de := ToDomainError(errors.New("dial tcp 10.0.0.5:5432: connection refused"))
		require.Equal(t, CodeInternal, de.Code)
		require.Equal(t, "internal server error", de.Message)
		require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"invalid status", NewInvalidStatus("bogus"), CodeInvalidStatus, true},
		{"invalid or expired", NewInvalidOrExpired(), CodeInvalidOrExpired, true},
		{"conflict", NewConflict("dup", nil), CodeConflict, true},
		{"mismatch", NewConflict("dup", nil), CodeNotFound, false},
		{"plain error", errors.New("boom"), CodeInternal, false},
		{"nil", nil, CodeInternal, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, HasCode(tt.err, tt.code))
		})
	}
}

func TestNewNotFoundDefaultsDetails(t *testing.T) {
	t.Parallel()

	err := NewNotFound("invitation", nil)
	de := ToDomainError(err)
	require.Equal(t, "invitation not found", de.Message)
	require.NotNil(t, de.Details)
}
