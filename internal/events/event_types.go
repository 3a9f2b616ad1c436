package events

import (
	"time"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventApplicationNoteAdded     EventType = "application_note_added"
	EventInvitationIssued         EventType = "invitation_issued"
	EventInvitationRedeemed       EventType = "invitation_redeemed"
	EventPasswordResetRequested   EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID   string      `json:"id,omitempty"`
	Role domain.Role `json:"role,omitempty"`
}

// ActorFrom copies the fields of a domain actor that events carry.
func ActorFrom(actor domain.Actor) Actor {
	return Actor{ID: actor.ID, Role: actor.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	JobID          string `json:"job_id"`
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	JobID          string                 `json:"job_id"`
	ApplicantName  string                 `json:"applicant_name"`
	ApplicantEmail string                 `json:"applicant_email"`
	OldStatus      domain.PipelineStatus  `json:"old_status"`
	NewStatus      domain.PipelineStatus  `json:"new_status"`
	ApplicantLabel domain.ApplicantStatus `json:"applicant_label"`
}

// ApplicationNoteAddedPayload payload.
type ApplicationNoteAddedPayload struct {
	NoteID      string `json:"note_id"`
	BodyPreview string `json:"body_preview"`
}

// InvitationPayload is shared by issued and redeemed invitation events. It
// never carries the token.
type InvitationPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// PasswordResetRequestedPayload carries the reset link to the notifier only.
type PasswordResetRequestedPayload struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ResetLink string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
