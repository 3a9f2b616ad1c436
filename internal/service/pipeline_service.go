package service

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/auth"
	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/observability"
	"github.com/spec-kit/staffing-board/internal/repository"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

const maxNoteLength = 5000

// PipelineService coordinates the recruiter applicant-tracking workflow.
// Every operation goes through the AccessResolver before touching data.
type PipelineService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	history      repository.StatusHistoryRepository
	access       *auth.AccessResolver
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// PipelineDependencies bundles repositories for the pipeline service.
type PipelineDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	JobRepo         repository.JobRepository
	HistoryRepo     repository.StatusHistoryRepository
	Access          *auth.AccessResolver
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	Now             func() time.Time
}

// GroupedApplications is the kanban view: one bucket per canonical status,
// present even when empty.
type GroupedApplications struct {
	Buckets      map[domain.PipelineStatus][]domain.Application
	Applications []domain.Application
	Total        int
}

// NewPipelineService constructs the service.
func NewPipelineService(deps PipelineDependencies) *PipelineService {
	return &PipelineService{
		applications: deps.ApplicationRepo,
		jobs:         deps.JobRepo,
		history:      deps.HistoryRepo,
		access:       deps.Access,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       loggerOrNop(deps.Logger),
		now:          clockOrDefault(deps.Now),
	}
}

// UpdateStatus moves an application to target. The target is validated
// before anything is read or written; the applicant notification is queued
// asynchronously and cannot fail the update.
func (s *PipelineService) UpdateStatus(ctx context.Context, actor domain.Actor, applicationID, target string) (*domain.Application, error) {
	status, ok := domain.ParsePipelineStatus(target)
	if !ok {
		return nil, apperrors.NewInvalidStatus(target)
	}

	app, err := s.authorize(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	previous, err := s.applications.UpdateStatus(ctx, app.ID, status, actor.ID, now)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotAuthorized()
		}
		return nil, apperrors.MapError(err)
	}

	app.Status = status
	app.LastUpdatedBy = &actor.ID
	app.LastUpdatedAt = &now

	s.recordStatusChange(ctx, app.ID, domain.NormalizeToCanonical(string(previous)), status, actor.ID, now)
	s.metrics.RecordTransition(string(status))

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventApplicationStatusChanged,
		SubjectID: app.ID,
		Actor:     events.ActorFrom(actor),
		Payload: events.ApplicationStatusChangedPayload{
			JobID:          app.JobID,
			ApplicantName:  strings.TrimSpace(app.FirstName + " " + app.LastName),
			ApplicantEmail: app.Email,
			OldStatus:      previous,
			NewStatus:      status,
			ApplicantLabel: status.ForApplicant(),
		},
	}, now)

	return app, nil
}

// AddNote appends a recruiter note. Notes are never edited or removed.
func (s *PipelineService) AddNote(ctx context.Context, actor domain.Actor, applicationID, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("note text is required", map[string]any{"field": "text"})
	}
	if len([]rune(text)) > maxNoteLength {
		return nil, apperrors.NewValidationError("note text is too long", map[string]any{"max_length": maxNoteLength})
	}

	app, err := s.authorize(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	note := &domain.Note{Text: text, AuthorID: actor.ID, CreatedAt: now}
	if err := s.applications.AppendNote(ctx, app.ID, note); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotAuthorized()
		}
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventApplicationNoteAdded,
		SubjectID: app.ID,
		Actor:     events.ActorFrom(actor),
		Payload: events.ApplicationNoteAddedPayload{
			NoteID:      note.ID,
			BodyPreview: stringPreview(text, 120),
		},
	}, now)
	return note, nil
}

// GetGrouped returns every application the actor may see, bucketed by status.
func (s *PipelineService) GetGrouped(ctx context.Context, actor domain.Actor) (*GroupedApplications, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewNotAuthorized()
	}

	all, jobIDs, err := s.access.JobScope(ctx, actor)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var apps []domain.Application
	if all {
		apps, err = s.applications.ListAll(ctx)
	} else {
		apps, err = s.applications.ListByJobs(ctx, jobIDs)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	grouped := &GroupedApplications{
		Buckets: make(map[domain.PipelineStatus][]domain.Application, len(domain.AllPipelineStatuses())),
	}
	for _, status := range domain.AllPipelineStatuses() {
		grouped.Buckets[status] = []domain.Application{}
	}

	for i := range apps {
		apps[i].Status = apps[i].CanonicalStatus()
	}
	sortByActivity(apps)
	for _, app := range apps {
		grouped.Buckets[app.Status] = append(grouped.Buckets[app.Status], app)
	}
	grouped.Applications = apps
	grouped.Total = len(apps)
	return grouped, nil
}

// GetForJob lists a job's applications, most recently updated first. A job
// the actor cannot see and a job that does not exist look the same.
func (s *PipelineService) GetForJob(ctx context.Context, actor domain.Actor, jobID string) ([]domain.Application, error) {
	if err := s.authorizeJob(ctx, actor, jobID); err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByJobs(ctx, []string{jobID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range apps {
		apps[i].Status = apps[i].CanonicalStatus()
	}
	sortByActivity(apps)
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

var csvHeader = []string{
	"id", "first_name", "last_name", "email", "phone", "license_type", "license_state",
	"years_experience", "status", "status_label", "applied_at", "last_updated_at",
}

// ExportCSV writes the job's applicants as CSV under the same access rule as GetForJob.
func (s *PipelineService) ExportCSV(ctx context.Context, actor domain.Actor, jobID string, w io.Writer) error {
	apps, err := s.GetForJob(ctx, actor, jobID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.NewInternalError(err)
	}
	for _, app := range apps {
		lastUpdated := ""
		if app.LastUpdatedAt != nil {
			lastUpdated = app.LastUpdatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			app.ID,
			app.FirstName,
			app.LastName,
			app.Email,
			app.Phone,
			app.LicenseType,
			app.LicenseState,
			strconv.Itoa(app.YearsExperience),
			string(app.Status),
			app.Status.Label(),
			app.CreatedAt.UTC().Format(time.RFC3339),
			lastUpdated,
		}
		if err := cw.Write(record); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// History returns the application's status transitions, oldest first.
func (s *PipelineService) History(ctx context.Context, actor domain.Actor, applicationID string) ([]domain.StatusChange, error) {
	app, err := s.authorize(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	changes, err := s.history.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if changes == nil {
		changes = []domain.StatusChange{}
	}
	return changes, nil
}

// ResumeFor returns the storage key of an application's resume.
func (s *PipelineService) ResumeFor(ctx context.Context, actor domain.Actor, applicationID string) (string, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if isNotFound(err) {
			return "", apperrors.NewNotAuthorized()
		}
		return "", apperrors.MapError(err)
	}
	ok, err := s.access.CanReadResume(ctx, actor, app)
	if err != nil {
		return "", apperrors.MapError(err)
	}
	if !ok {
		return "", apperrors.NewNotAuthorized()
	}
	if app.ResumeKey == "" {
		return "", apperrors.NewNotFound("resume", nil)
	}
	return app.ResumeKey, nil
}

func (s *PipelineService) authorize(ctx context.Context, actor domain.Actor, applicationID string) (*domain.Application, error) {
	app, ok, err := s.access.AuthorizeApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !ok {
		return nil, apperrors.NewNotAuthorized()
	}
	return app, nil
}

func (s *PipelineService) authorizeJob(ctx context.Context, actor domain.Actor, jobID string) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewNotAuthorized()
	}
	if _, err := s.jobs.CreatedByOf(ctx, jobID); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotAuthorized()
		}
		return apperrors.MapError(err)
	}
	ok, err := s.access.CanAccessJob(ctx, actor, jobID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !ok {
		return apperrors.NewNotAuthorized()
	}
	return nil
}

func (s *PipelineService) recordStatusChange(ctx context.Context, applicationID string, from, to domain.PipelineStatus, by string, at time.Time) {
	if s.history == nil {
		return
	}
	change := &domain.StatusChange{
		ApplicationID: applicationID,
		FromStatus:    from,
		ToStatus:      to,
		ChangedBy:     by,
		CreatedAt:     at,
	}
	if err := s.history.Create(ctx, change); err != nil {
		s.logger.Warn("failed to record status change",
			zap.String("application_id", applicationID),
			zap.Error(err))
	}
}

func sortByActivity(apps []domain.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		ai, aj := apps[i].LastActivity(), apps[j].LastActivity()
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
