package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// InvitationRepository persists the invitation ledger. Every state change is
// a single conditional statement so concurrent callers cannot both win.
type InvitationRepository interface {
	// CreateIfNoPending inserts inv unless an unused, unexpired invitation
	// already exists for the same email at now.
	CreateIfNoPending(ctx context.Context, inv *domain.Invitation, now time.Time) error
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	// FindValidByTokenHash is a read-only lookup with the redemption predicate.
	FindValidByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Invitation, error)
	// ConsumeByTokenHash flips used=false to used=true when still valid at now.
	ConsumeByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Invitation, error)
	// RotateToken replaces the hash and expiry of a still-pending invitation.
	RotateToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) (*domain.Invitation, error)
	MarkUsed(ctx context.Context, id string) error
	ListByIssuer(ctx context.Context, issuerID string) ([]domain.Invitation, error)
}

type invitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository builds repository.
func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &invitationRepository{pool: pool}
}

const invitationColumns = `id, email, role, token_hash, expires_at, invited_by, used, created_at, updated_at`

func (r *invitationRepository) CreateIfNoPending(ctx context.Context, inv *domain.Invitation, now time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Serializes issuers targeting the same address for the life of the tx.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, inv.Email); err != nil {
		return err
	}

	var pending bool
	const pendingQuery = `
        SELECT EXISTS (
            SELECT 1 FROM invitations WHERE email=$1 AND used=FALSE AND expires_at > $2
        )`
	if err := tx.QueryRow(ctx, pendingQuery, inv.Email, now).Scan(&pending); err != nil {
		return err
	}
	if pending {
		return ErrPendingInvitation
	}

	const insert = `
        INSERT INTO invitations (email, role, token_hash, expires_at, invited_by, used, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,FALSE,$6,$6)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		inv.Email,
		inv.Role,
		inv.TokenHash,
		inv.ExpiresAt,
		inv.InvitedBy,
		now,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if code, _ := pgErrorCode(err); code == uniqueViolation {
			return ErrDuplicate
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id=$1`
	return scanInvitation(r.pool.QueryRow(ctx, query, id))
}

func (r *invitationRepository) FindValidByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
        WHERE token_hash=$1 AND used=FALSE AND expires_at > $2`
	return scanInvitation(r.pool.QueryRow(ctx, query, tokenHash, now))
}

func (r *invitationRepository) ConsumeByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.Invitation, error) {
	query := `UPDATE invitations SET used=TRUE, updated_at=$2
        WHERE token_hash=$1 AND used=FALSE AND expires_at > $2
        RETURNING ` + invitationColumns
	return scanInvitation(r.pool.QueryRow(ctx, query, tokenHash, now))
}

func (r *invitationRepository) RotateToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) (*domain.Invitation, error) {
	query := `UPDATE invitations SET token_hash=$2, expires_at=$3, updated_at=$4
        WHERE id=$1 AND used=FALSE AND expires_at > $4
        RETURNING ` + invitationColumns
	return scanInvitation(r.pool.QueryRow(ctx, query, id, tokenHash, expiresAt, now))
}

func (r *invitationRepository) MarkUsed(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE invitations SET used=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invitationRepository) ListByIssuer(ctx context.Context, issuerID string) ([]domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE invited_by=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, issuerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

func scanInvitation(row pgx.Row) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.Role,
		&inv.TokenHash,
		&inv.ExpiresAt,
		&inv.InvitedBy,
		&inv.Used,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}
