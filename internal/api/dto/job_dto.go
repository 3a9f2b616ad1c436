package dto

import (
	"time"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// JobRequest posts a job.
type JobRequest struct {
	Title       string         `json:"title" validate:"required,max=200"`
	Description string         `json:"description" validate:"max=20000"`
	Location    string         `json:"location" validate:"max=200"`
	JobType     domain.JobType `json:"job_type"`
	Category    string         `json:"category" validate:"max=100"`
	Specialty   string         `json:"specialty" validate:"max=100"`
	PayRate     string         `json:"pay_rate" validate:"max=100"`
	Company     string         `json:"company" validate:"max=200"`
}

// JobResponse payload.
type JobResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	JobType     domain.JobType `json:"job_type"`
	Category    string         `json:"category,omitempty"`
	Specialty   string         `json:"specialty,omitempty"`
	PayRate     string         `json:"pay_rate,omitempty"`
	Company     string         `json:"company,omitempty"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SubmitApplicationRequest is the candidate's form.
type SubmitApplicationRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"max=40"`
	LicenseType     string `json:"license_type" validate:"max=50"`
	LicenseState    string `json:"license_state" validate:"max=2"`
	YearsExperience int    `json:"years_experience" validate:"gte=0,lte=80"`
	ResumeKey       string `json:"resume_key" validate:"max=500"`
}

// ApplicantApplicationResponse is what a candidate sees of their own
// application.
type ApplicantApplicationResponse struct {
	ID        string                 `json:"id"`
	JobID     string                 `json:"job_id"`
	JobTitle  string                 `json:"job_title"`
	Status    domain.ApplicantStatus `json:"status"`
	AppliedAt time.Time              `json:"applied_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// AppliedCheckResponse tells a candidate whether they already applied.
type AppliedCheckResponse struct {
	JobID   string `json:"job_id"`
	Applied bool   `json:"applied"`
}

// SubmittedApplicationResponse confirms a submission without exposing the
// pipeline status.
type SubmittedApplicationResponse struct {
	ID        string                 `json:"id"`
	JobID     string                 `json:"job_id"`
	Status    domain.ApplicantStatus `json:"status"`
	AppliedAt time.Time              `json:"applied_at"`
}
