package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// JobRepository persists job postings and answers ownership lookups.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.Job, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Job, error)
	CreatedByOf(ctx context.Context, jobID string) (string, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository builds repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, location, job_type, category, specialty, pay_rate, company, created_by, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, description, location, job_type, category, specialty, pay_rate, company, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.Location,
		job.JobType,
		job.Category,
		job.Specialty,
		job.PayRate,
		job.Company,
		job.CreatedBy,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id=$1`
	return scanJob(r.pool.QueryRow(ctx, query, id))
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *jobRepository) ListAll(ctx context.Context) ([]domain.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
}

func (r *jobRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE created_by=$1 ORDER BY created_at DESC`, creatorID)
}

func (r *jobRepository) list(ctx context.Context, query string, args ...any) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *job)
	}
	return result, rows.Err()
}

func (r *jobRepository) CreatedByOf(ctx context.Context, jobID string) (string, error) {
	var createdBy string
	err := r.pool.QueryRow(ctx, `SELECT created_by FROM jobs WHERE id=$1`, jobID).Scan(&createdBy)
	return createdBy, err
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.JobType,
		&job.Category,
		&job.Specialty,
		&job.PayRate,
		&job.Company,
		&job.CreatedBy,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}
