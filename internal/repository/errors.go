package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate signals a unique constraint hit on insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrOwnerExists signals that the single owner slot is already taken.
	ErrOwnerExists = errors.New("owner account already exists")
	// ErrPendingInvitation signals an unused, unexpired invitation for the same email.
	ErrPendingInvitation = errors.New("pending invitation exists for email")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	singleOwnerConstraint = "users_single_owner_idx"
)

func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
