package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// PasswordResetRepository manages password reset token persistence.
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	// Consume marks the reset used when it is unused and unexpired at now.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error)
}

type passwordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	const query = `
        INSERT INTO password_resets (user_id, token_hash, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reset.UserID,
		reset.TokenHash,
		reset.ExpiresAt,
	).Scan(&reset.ID, &reset.CreatedAt)
}

func (r *passwordResetRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	const query = `
        UPDATE password_resets SET used_at=$2
        WHERE token_hash=$1 AND used_at IS NULL AND expires_at > $2
        RETURNING id, user_id, token_hash, expires_at, used_at, created_at`
	var reset domain.PasswordReset
	if err := r.pool.QueryRow(ctx, query, tokenHash, now).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.TokenHash,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reset, nil
}
