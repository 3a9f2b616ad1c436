package dto

import (
	"time"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// StatusUpdateRequest moves an application through the pipeline. The value
// is matched exactly against the canonical statuses.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// NoteRequest appends a recruiter note.
type NoteRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

// NoteResponse payload.
type NoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplicationResponse is the recruiter view of an application.
type ApplicationResponse struct {
	ID              string                `json:"id"`
	JobID           string                `json:"job_id"`
	ApplicantID     *string               `json:"applicant_id,omitempty"`
	FirstName       string                `json:"first_name"`
	LastName        string                `json:"last_name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone,omitempty"`
	LicenseType     string                `json:"license_type,omitempty"`
	LicenseState    string                `json:"license_state,omitempty"`
	YearsExperience int                   `json:"years_experience"`
	HasResume       bool                  `json:"has_resume"`
	Status          domain.PipelineStatus `json:"status"`
	StatusLabel     string                `json:"status_label"`
	Notes           []NoteResponse        `json:"notes"`
	LastUpdatedBy   *string               `json:"last_updated_by,omitempty"`
	LastUpdatedAt   *time.Time            `json:"last_updated_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// StatusOption describes one pipeline column.
type StatusOption struct {
	Value domain.PipelineStatus `json:"value"`
	Label string                `json:"label"`
}

// GroupedApplicationsResponse is the kanban board.
type GroupedApplicationsResponse struct {
	Statuses     []StatusOption                                  `json:"statuses"`
	Buckets      map[domain.PipelineStatus][]ApplicationResponse `json:"buckets"`
	Applications []ApplicationResponse                           `json:"applications"`
	Total        int                                             `json:"total"`
}

// StatusChangeResponse is one entry of an application's history.
type StatusChangeResponse struct {
	ID         string                `json:"id"`
	FromStatus domain.PipelineStatus `json:"from_status"`
	ToStatus   domain.PipelineStatus `json:"to_status"`
	ChangedBy  string                `json:"changed_by"`
	CreatedAt  time.Time             `json:"created_at"`
}
