package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// StatusHistoryRepository stores the append-only log of pipeline transitions.
type StatusHistoryRepository interface {
	Create(ctx context.Context, change *domain.StatusChange) error
	ListByApplication(ctx context.Context, applicationID string) ([]domain.StatusChange, error)
}

type statusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository builds repository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) StatusHistoryRepository {
	return &statusHistoryRepository{pool: pool}
}

func (r *statusHistoryRepository) Create(ctx context.Context, change *domain.StatusChange) error {
	const query = `
        INSERT INTO application_status_changes (application_id, from_status, to_status, changed_by, created_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		change.ApplicationID,
		change.FromStatus,
		change.ToStatus,
		change.ChangedBy,
		change.CreatedAt,
	).Scan(&change.ID)
}

func (r *statusHistoryRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.StatusChange, error) {
	const query = `
        SELECT id, application_id, from_status, to_status, changed_by, created_at
        FROM application_status_changes WHERE application_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusChange
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(
			&change.ID,
			&change.ApplicationID,
			&change.FromStatus,
			&change.ToStatus,
			&change.ChangedBy,
			&change.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}
