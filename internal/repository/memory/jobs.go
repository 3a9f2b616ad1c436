package memory

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staffing-board/internal/domain"
)

type jobRepository struct {
	s *Store
}

func (r *jobRepository) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	job.ID = newID()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *jobRepository) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &job, nil
}

// Delete cascades to the job's applications like the Postgres foreign key.
func (r *jobRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.jobs, id)
	for appID, app := range r.s.applications {
		if app.JobID == id {
			delete(r.s.applications, appID)
			delete(r.s.statusChanges, appID)
		}
	}
	return nil
}

func (r *jobRepository) ListAll(_ context.Context) ([]domain.Job, error) {
	return r.filter(func(domain.Job) bool { return true }), nil
}

func (r *jobRepository) ListByCreator(_ context.Context, creatorID string) ([]domain.Job, error) {
	return r.filter(func(job domain.Job) bool { return job.CreatedBy == creatorID }), nil
}

// filter returns matching jobs newest first.
func (r *jobRepository) filter(keep func(domain.Job) bool) []domain.Job {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.Job
	for _, job := range r.s.jobs {
		if keep(job) {
			result = append(result, job)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

func (r *jobRepository) CreatedByOf(_ context.Context, jobID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[jobID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return job.CreatedBy, nil
}
