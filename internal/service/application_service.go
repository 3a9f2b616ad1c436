package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/repository"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

// ApplicationService handles the candidate side: submitting and tracking.
type ApplicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	now          func() time.Time
}

// ApplicationDependencies bundles repositories for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	JobRepo         repository.JobRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Now             func() time.Time
}

// SubmitInput is a candidate's application form. ResumeKey refers to a file
// already placed in resume storage by the caller.
type SubmitInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	LicenseType     string
	LicenseState    string
	YearsExperience int
	ResumeKey       string
}

// ApplicantView is the only shape of an application a candidate receives:
// no notes and no pipeline status.
type ApplicantView struct {
	ID        string
	JobID     string
	JobTitle  string
	Status    domain.ApplicantStatus
	AppliedAt time.Time
	UpdatedAt time.Time
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		jobs:         deps.JobRepo,
		dispatcher:   deps.Dispatcher,
		logger:       loggerOrNop(deps.Logger),
		now:          clockOrDefault(deps.Now),
	}
}

// Submit records an application with the default status. actor is nil for
// anonymous submissions keyed by email alone.
func (s *ApplicationService) Submit(ctx context.Context, actor *domain.Actor, jobID string, input SubmitInput) (*domain.Application, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	email := domain.NormalizeEmail(input.Email)
	if actor != nil && email == "" {
		email = domain.NormalizeEmail(actor.Email)
	}

	details := map[string]any{}
	if first == "" {
		details["first_name"] = "required"
	}
	if last == "" {
		details["last_name"] = "required"
	}
	if !validEmail(email) {
		details["email"] = "invalid"
	}
	if input.YearsExperience < 0 {
		details["years_experience"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid application", details)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.MapError(err)
	}

	app := &domain.Application{
		JobID:           job.ID,
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Phone:           strings.TrimSpace(input.Phone),
		LicenseType:     strings.TrimSpace(input.LicenseType),
		LicenseState:    strings.ToUpper(strings.TrimSpace(input.LicenseState)),
		YearsExperience: input.YearsExperience,
		ResumeKey:       strings.TrimSpace(input.ResumeKey),
		Status:          domain.DefaultPipelineStatus,
	}
	if actor != nil && actor.ID != "" {
		id := actor.ID
		app.ApplicantID = &id
	}

	if err := s.applications.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflict("you have already applied to this job", nil)
		case isNotFound(err):
			return nil, apperrors.NewNotFound("job", nil)
		default:
			return nil, apperrors.MapError(err)
		}
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventApplicationSubmitted,
		SubjectID: app.ID,
		Payload: events.ApplicationSubmittedPayload{
			JobID:          job.ID,
			ApplicantName:  strings.TrimSpace(first + " " + last),
			ApplicantEmail: email,
		},
	}, s.now())
	return app, nil
}

// Mine lists the actor's applications with applicant-facing statuses.
func (s *ApplicationService) Mine(ctx context.Context, actor domain.Actor) ([]ApplicantView, error) {
	if actor.ID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	apps, err := s.applications.ListByApplicant(ctx, actor.ID, actor.Email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	titles := make(map[string]string)
	views := make([]ApplicantView, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		title, ok := titles[app.JobID]
		if !ok {
			if job, err := s.jobs.GetByID(ctx, app.JobID); err == nil {
				title = job.Title
			} else if !isNotFound(err) {
				return nil, apperrors.MapError(err)
			}
			titles[app.JobID] = title
		}
		views = append(views, ApplicantView{
			ID:        app.ID,
			JobID:     app.JobID,
			JobTitle:  title,
			Status:    app.ApplicantStatus(),
			AppliedAt: app.CreatedAt,
			UpdatedAt: app.LastActivity(),
		})
	}
	return views, nil
}

// HasApplied reports whether the signed-in actor already applied to jobID.
// Unknown jobs report false.
func (s *ApplicationService) HasApplied(ctx context.Context, actor domain.Actor, jobID string) (bool, error) {
	if actor.ID == "" {
		return false, apperrors.NewUnauthorized("authentication required")
	}
	applied, err := s.applications.ExistsForApplicant(ctx, jobID, actor.ID)
	if err != nil {
		return false, apperrors.MapError(err)
	}
	return applied, nil
}
