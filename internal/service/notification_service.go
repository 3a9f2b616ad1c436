package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/config"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/notify"
	"github.com/spec-kit/staffing-board/internal/observability"
	"github.com/spec-kit/staffing-board/internal/repository"
)

// Notification kinds carried on notify.Message.
const (
	NotificationApplicationReceived = "application_received"
	NotificationApplicationUpdate   = "application_update"
	NotificationPasswordReset       = "password_reset"
)

// NotificationService turns domain events into queued messages. Delivery
// failures never reach the operation that published the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	jobs       repository.JobRepository
	outbox     notify.Outbox
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.NotificationConfig
	now        func() time.Time
}

// NotificationDependencies bundles what the notifier needs.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	JobRepo    repository.JobRepository
	Outbox     notify.Outbox
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Config     config.NotificationConfig
	Now        func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		jobs:       deps.JobRepo,
		outbox:     deps.Outbox,
		metrics:    deps.Metrics,
		logger:     loggerOrNop(deps.Logger),
		cfg:        deps.Config,
		now:        clockOrDefault(deps.Now),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	for _, eventType := range []events.EventType{
		events.EventInvitationIssued,
		events.EventInvitationRedeemed,
		events.EventApplicationNoteAdded,
	} {
		n.dispatcher.Subscribe(eventType, n.recordActivity)
	}
}

// recordActivity writes an audit line for events that produce no message.
func (n *NotificationService) recordActivity(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.ID),
	}
	switch payload := event.Payload.(type) {
	case events.InvitationPayload:
		fields = append(fields, zap.String("role", string(payload.Role)))
	case events.ApplicationNoteAddedPayload:
		fields = append(fields, zap.String("note_id", payload.NoteID))
	}
	n.logger.Info("activity recorded", fields...)
	n.metrics.RecordActivity(string(event.Type))
	return nil
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	title := n.jobTitle(ctx, payload.JobID)
	body := fmt.Sprintf("Hi %s,\n\nWe've received your application for %s.\nOur team will review it and get back to you soon.\n",
		greetingName(payload.ApplicantName), title)
	n.enqueue(ctx, event, notify.Message{
		Kind:    NotificationApplicationReceived,
		To:      payload.ApplicantEmail,
		Subject: "Application received – " + title,
		Body:    body,
	})
	return nil
}

func (n *NotificationService) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	title := n.jobTitle(ctx, payload.JobID)
	body := fmt.Sprintf("Hi %s,\n\nYour application for %s has been updated.\nNew status: %s\n",
		greetingName(payload.ApplicantName), title, payload.ApplicantLabel)
	n.enqueue(ctx, event, notify.Message{
		Kind:    NotificationApplicationUpdate,
		To:      payload.ApplicantEmail,
		Subject: "Application update – " + title,
		Body:    body,
	})
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	body := fmt.Sprintf("Hi %s,\n\nYou requested a password reset.\nReset your password: %s\nThis link expires at %s.\nIf you didn't request this, you can ignore this email.\n",
		greetingName(payload.Name), payload.ResetLink, payload.ExpiresAt.UTC().Format(time.RFC1123))
	n.enqueue(ctx, event, notify.Message{
		Kind:    NotificationPasswordReset,
		To:      payload.Email,
		Subject: "Reset your password",
		Body:    body,
	})
	return nil
}

func (n *NotificationService) enqueue(ctx context.Context, event events.Event, msg notify.Message) {
	if n.outbox == nil || strings.TrimSpace(msg.To) == "" {
		return
	}
	msg.ID = uuid.NewString()
	msg.From = n.cfg.EmailFrom
	msg.CreatedAt = n.now()
	if err := n.outbox.Enqueue(ctx, msg); err != nil {
		n.metrics.RecordNotification("dropped")
		n.logger.Warn("notification dropped",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.String("kind", msg.Kind),
			zap.Error(err))
		return
	}
	n.metrics.RecordNotification("queued")
	n.logger.Debug("notification queued",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("kind", msg.Kind))
}

func (n *NotificationService) jobTitle(ctx context.Context, jobID string) string {
	if n.jobs != nil && jobID != "" {
		job, err := n.jobs.GetByID(ctx, jobID)
		if err == nil && strings.TrimSpace(job.Title) != "" {
			return job.Title
		}
		if err != nil && !isNotFound(err) {
			n.logger.Warn("job title lookup failed", zap.String("job_id", jobID), zap.Error(err))
		}
	}
	return "the position"
}

func greetingName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return "there"
}
