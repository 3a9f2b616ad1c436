package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// JobOwnerLookup resolves the staff user who created a job.
type JobOwnerLookup interface {
	CreatedByOf(ctx context.Context, jobID string) (string, error)
}

// JobLister lists the jobs a staff user created.
type JobLister interface {
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Job, error)
}

// ApplicationLookup loads an application by id.
type ApplicationLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Application, error)
}

// JobStore is the slice of the job repository the resolver needs.
type JobStore interface {
	JobOwnerLookup
	JobLister
}

// AccessResolver is the single ownership rule for pipeline and job data:
// the owner sees everything, a recruiter sees the jobs it created and their
// applications, nobody else sees any of it. Absent resources resolve to
// false so callers cannot probe for existence. Storage failures are
// returned as errors, never as a denial.
type AccessResolver struct {
	jobs         JobStore
	applications ApplicationLookup
}

// NewAccessResolver builds a resolver.
func NewAccessResolver(jobs JobStore, applications ApplicationLookup) *AccessResolver {
	return &AccessResolver{jobs: jobs, applications: applications}
}

// CanAccessJob decides read/write access to a job and its applications.
func (r *AccessResolver) CanAccessJob(ctx context.Context, actor domain.Actor, jobID string) (bool, error) {
	switch actor.Role {
	case domain.RoleOwner:
		return true, nil
	case domain.RoleRecruiter:
		if actor.ID == "" || jobID == "" {
			return false, nil
		}
		createdBy, err := r.jobs.CreatedByOf(ctx, jobID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return false, nil
			}
			return false, err
		}
		return createdBy == actor.ID, nil
	default:
		return false, nil
	}
}

// CanAccessApplication applies CanAccessJob to the job behind the application.
func (r *AccessResolver) CanAccessApplication(ctx context.Context, actor domain.Actor, applicationID string) (bool, error) {
	_, ok, err := r.AuthorizeApplication(ctx, actor, applicationID)
	return ok, err
}

// AuthorizeApplication is CanAccessApplication that also hands back the
// loaded application when access is granted.
func (r *AccessResolver) AuthorizeApplication(ctx context.Context, actor domain.Actor, applicationID string) (*domain.Application, bool, error) {
	if !actor.Role.IsStaff() {
		return nil, false, nil
	}
	app, err := r.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	ok, err := r.CanAccessJob(ctx, actor, app.JobID)
	if err != nil || !ok {
		return nil, false, err
	}
	return app, true, nil
}

// CanReadResume admits the submitting applicant, matched by account id or
// email, and staff who can access the owning job.
func (r *AccessResolver) CanReadResume(ctx context.Context, actor domain.Actor, app *domain.Application) (bool, error) {
	if app == nil || actor.ID == "" {
		return false, nil
	}
	if app.ApplicantID != nil && *app.ApplicantID == actor.ID {
		return true, nil
	}
	if email := domain.NormalizeEmail(actor.Email); email != "" && strings.EqualFold(email, app.Email) {
		return true, nil
	}
	if actor.Role.IsStaff() {
		return r.CanAccessJob(ctx, actor, app.JobID)
	}
	return false, nil
}

// JobScope returns the set of jobs an actor may see. all is true for the
// owner, in which case jobIDs is nil.
func (r *AccessResolver) JobScope(ctx context.Context, actor domain.Actor) (all bool, jobIDs []string, err error) {
	switch actor.Role {
	case domain.RoleOwner:
		return true, nil, nil
	case domain.RoleRecruiter:
		jobs, err := r.jobs.ListByCreator(ctx, actor.ID)
		if err != nil {
			return false, nil, err
		}
		jobIDs = make([]string, 0, len(jobs))
		for _, job := range jobs {
			jobIDs = append(jobIDs, job.ID)
		}
		return false, jobIDs, nil
	default:
		return false, nil, nil
	}
}
