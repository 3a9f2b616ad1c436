package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/repository"
)

type applicationRepository struct {
	s *Store
}

func (r *applicationRepository) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[app.JobID]; !ok {
		return pgx.ErrNoRows
	}
	if app.ApplicantID != nil {
		for _, existing := range r.s.applications {
			if existing.JobID == app.JobID && existing.ApplicantID != nil && *existing.ApplicantID == *app.ApplicantID {
				return repository.ErrDuplicate
			}
		}
	}

	app.ID = newID()
	app.CreatedAt = r.s.now()
	app.Notes = nil
	r.s.applications[app.ID] = cloneApplication(*app)
	return nil
}

func (r *applicationRepository) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.applications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneApplication(app)
	return &out, nil
}

func (r *applicationRepository) ListAll(_ context.Context) ([]domain.Application, error) {
	return r.filter(func(domain.Application) bool { return true }), nil
}

func (r *applicationRepository) ListByJobs(_ context.Context, jobIDs []string) ([]domain.Application, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		set[id] = struct{}{}
	}
	return r.filter(func(app domain.Application) bool {
		_, ok := set[app.JobID]
		return ok
	}), nil
}

func (r *applicationRepository) ListByApplicant(_ context.Context, applicantID, email string) ([]domain.Application, error) {
	email = domain.NormalizeEmail(email)
	result := r.filter(func(app domain.Application) bool {
		if applicantID != "" && app.ApplicantID != nil && *app.ApplicantID == applicantID {
			return true
		}
		return email != "" && app.Email == email
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *applicationRepository) UpdateStatus(_ context.Context, id string, status domain.PipelineStatus, updatedBy string, at time.Time) (domain.PipelineStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	previous := app.Status
	app.Status = status
	by := updatedBy
	ts := at
	app.LastUpdatedBy = &by
	app.LastUpdatedAt = &ts
	r.s.applications[id] = app
	return previous, nil
}

func (r *applicationRepository) AppendNote(_ context.Context, applicationID string, note *domain.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[applicationID]
	if !ok {
		return pgx.ErrNoRows
	}
	note.ID = newID()
	app.Notes = append(app.Notes, *note)
	r.s.applications[applicationID] = app
	return nil
}

func (r *applicationRepository) ExistsForApplicant(_ context.Context, jobID, applicantID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, app := range r.s.applications {
		if app.JobID == jobID && app.ApplicantID != nil && *app.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (r *applicationRepository) filter(keep func(domain.Application) bool) []domain.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.Application
	for _, app := range r.s.applications {
		if keep(app) {
			result = append(result, cloneApplication(app))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		ai, aj := result[i].LastActivity(), result[j].LastActivity()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func cloneApplication(app domain.Application) domain.Application {
	out := app
	if app.ApplicantID != nil {
		id := *app.ApplicantID
		out.ApplicantID = &id
	}
	if app.LastUpdatedBy != nil {
		by := *app.LastUpdatedBy
		out.LastUpdatedBy = &by
	}
	if app.LastUpdatedAt != nil {
		at := *app.LastUpdatedAt
		out.LastUpdatedAt = &at
	}
	if app.Notes != nil {
		out.Notes = append([]domain.Note(nil), app.Notes...)
	}
	return out
}

type statusHistoryRepository struct {
	s *Store
}

func (r *statusHistoryRepository) Create(_ context.Context, change *domain.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	change.ID = newID()
	r.s.statusChanges[change.ApplicationID] = append(r.s.statusChanges[change.ApplicationID], *change)
	return nil
}

func (r *statusHistoryRepository) ListByApplication(_ context.Context, applicationID string) ([]domain.StatusChange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]domain.StatusChange(nil), r.s.statusChanges[applicationID]...), nil
}
