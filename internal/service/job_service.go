package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/auth"
	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/repository"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

// JobService is the thin posting surface the pipeline depends on for ownership.
type JobService struct {
	jobs   repository.JobRepository
	access *auth.AccessResolver
	logger *zap.Logger
}

// JobInput describes a new posting.
type JobInput struct {
	Title       string
	Description string
	Location    string
	JobType     domain.JobType
	Category    string
	Specialty   string
	PayRate     string
	Company     string
}

// NewJobService constructs the service.
func NewJobService(jobs repository.JobRepository, access *auth.AccessResolver, logger *zap.Logger) *JobService {
	return &JobService{jobs: jobs, access: access, logger: loggerOrNop(logger)}
}

// Create posts a job owned by the acting staff user.
func (s *JobService) Create(ctx context.Context, actor domain.Actor, input JobInput) (*domain.Job, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewNotAuthorized()
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	jobType := input.JobType
	if jobType == "" {
		jobType = domain.JobTypeFullTime
	}
	if !jobType.Valid() {
		return nil, apperrors.NewValidationError("unknown job type", map[string]any{"field": "job_type"})
	}

	job := &domain.Job{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		JobType:     jobType,
		Category:    strings.TrimSpace(input.Category),
		Specialty:   strings.TrimSpace(input.Specialty),
		PayRate:     strings.TrimSpace(input.PayRate),
		Company:     strings.TrimSpace(input.Company),
		CreatedBy:   actor.ID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("job created", zap.String("job_id", job.ID), zap.String("created_by", actor.ID))
	return job, nil
}

// Get returns a public job posting.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("job", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// List returns every posting, newest first.
func (s *JobService) List(ctx context.Context) ([]domain.Job, error) {
	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}

// ListMine returns the jobs the actor created.
func (s *JobService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Job, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewNotAuthorized()
	}
	jobs, err := s.jobs.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}

// Delete removes a job and, through the store, its applications.
func (s *JobService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	ok, err := s.access.CanAccessJob(ctx, actor, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return apperrors.NewNotAuthorized()
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotFound("job", nil)
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("job deleted", zap.String("job_id", id), zap.String("deleted_by", actor.ID))
	return nil
}
