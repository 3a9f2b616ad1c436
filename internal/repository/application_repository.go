package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// ApplicationRepository persists applications and their append-only notes.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListAll(ctx context.Context) ([]domain.Application, error)
	ListByJobs(ctx context.Context, jobIDs []string) ([]domain.Application, error)
	ListByApplicant(ctx context.Context, applicantID, email string) ([]domain.Application, error)
	ExistsForApplicant(ctx context.Context, jobID, applicantID string) (bool, error)
	// UpdateStatus overwrites the status snapshot and returns the previous status.
	UpdateStatus(ctx context.Context, id string, status domain.PipelineStatus, updatedBy string, at time.Time) (domain.PipelineStatus, error)
	AppendNote(ctx context.Context, applicationID string, note *domain.Note) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository builds repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, job_id, applicant_id, first_name, last_name, email, phone, license_type, license_state,
        years_experience, resume_key, status, last_updated_by, last_updated_at, created_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (job_id, applicant_id, first_name, last_name, email, phone, license_type,
            license_state, years_experience, resume_key, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		app.JobID,
		app.ApplicantID,
		app.FirstName,
		app.LastName,
		app.Email,
		app.Phone,
		app.LicenseType,
		app.LicenseState,
		app.YearsExperience,
		app.ResumeKey,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt)
	if code, _ := pgErrorCode(err); code == uniqueViolation {
		return ErrDuplicate
	} else if code == foreignKeyViolation {
		return pgx.ErrNoRows
	}
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	apps := []domain.Application{*app}
	if err := r.attachNotes(ctx, apps); err != nil {
		return nil, err
	}
	return &apps[0], nil
}

func (r *applicationRepository) ListAll(ctx context.Context) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY COALESCE(last_updated_at, created_at) DESC, created_at DESC`
	return r.list(ctx, query)
}

func (r *applicationRepository) ListByJobs(ctx context.Context, jobIDs []string) ([]domain.Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = ANY($1)
        ORDER BY COALESCE(last_updated_at, created_at) DESC, created_at DESC`
	return r.list(ctx, query, jobIDs)
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID, email string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
        WHERE ($1 <> '' AND applicant_id=$1) OR ($2 <> '' AND email=$2)
        ORDER BY created_at DESC`
	return r.list(ctx, query, applicantID, domain.NormalizeEmail(email))
}

func (r *applicationRepository) ExistsForApplicant(ctx context.Context, jobID, applicantID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM applications WHERE job_id=$1 AND applicant_id=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, jobID, applicantID).Scan(&exists)
	return exists, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.PipelineStatus, updatedBy string, at time.Time) (domain.PipelineStatus, error) {
	const query = `
        WITH prev AS (
            SELECT id, status FROM applications WHERE id=$1 FOR UPDATE
        )
        UPDATE applications a
        SET status=$2, last_updated_by=$3, last_updated_at=$4
        FROM prev
        WHERE a.id = prev.id
        RETURNING prev.status`
	var previous domain.PipelineStatus
	if err := r.pool.QueryRow(ctx, query, id, status, updatedBy, at).Scan(&previous); err != nil {
		return "", err
	}
	return previous, nil
}

func (r *applicationRepository) AppendNote(ctx context.Context, applicationID string, note *domain.Note) error {
	const query = `
        INSERT INTO application_notes (application_id, author_id, body, created_at)
        SELECT $1, $2, $3, $4
        WHERE EXISTS (SELECT 1 FROM applications WHERE id=$1)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, applicationID, note.AuthorID, note.Text, note.CreatedAt).Scan(&note.ID)
}

func (r *applicationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachNotes(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *applicationRepository) attachNotes(ctx context.Context, apps []domain.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]string, len(apps))
	index := make(map[string]int, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
		index[apps[i].ID] = i
	}

	const query = `
        SELECT id, application_id, author_id, body, created_at
        FROM application_notes WHERE application_id = ANY($1)
        ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			note  domain.Note
			appID string
		)
		if err := rows.Scan(&note.ID, &appID, &note.AuthorID, &note.Text, &note.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[appID]; ok {
			apps[i].Notes = append(apps[i].Notes, note)
		}
	}
	return rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.FirstName,
		&app.LastName,
		&app.Email,
		&app.Phone,
		&app.LicenseType,
		&app.LicenseState,
		&app.YearsExperience,
		&app.ResumeKey,
		&app.Status,
		&app.LastUpdatedBy,
		&app.LastUpdatedAt,
		&app.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}
