package domain

import "time"

// Note is an append-only recruiter remark on an application.
type Note struct {
	ID        string
	Text      string
	AuthorID  string
	CreatedAt time.Time
}

// Application is a candidate's submission against a job. Only Status, Notes
// and the LastUpdated fields change after creation.
type Application struct {
	ID              string
	JobID           string
	ApplicantID     *string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	LicenseType     string
	LicenseState    string
	YearsExperience int
	ResumeKey       string
	Status          PipelineStatus
	Notes           []Note
	LastUpdatedBy   *string
	LastUpdatedAt   *time.Time
	CreatedAt       time.Time
}

// LastActivity is the sort key for recruiter listings.
func (a *Application) LastActivity() time.Time {
	if a.LastUpdatedAt != nil {
		return *a.LastUpdatedAt
	}
	return a.CreatedAt
}

// CanonicalStatus tolerates legacy values loaded from older rows.
func (a *Application) CanonicalStatus() PipelineStatus {
	return NormalizeToCanonical(string(a.Status))
}

// ApplicantStatus is what the candidate is allowed to see.
func (a *Application) ApplicantStatus() ApplicantStatus {
	return ProjectForApplicant(string(a.Status))
}

// StatusChange is one entry of the immutable transition log.
type StatusChange struct {
	ID            string
	ApplicationID string
	FromStatus    PipelineStatus
	ToStatus      PipelineStatus
	ChangedBy     string
	CreatedAt     time.Time
}
