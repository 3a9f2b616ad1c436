package domain

import "time"

// JobType enumerates employment arrangements.
type JobType string

const (
	JobTypeFullTime JobType = "full-time"
	JobTypePartTime JobType = "part-time"
	JobTypeContract JobType = "contract"
	JobTypeTravel   JobType = "travel"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeTravel:
		return true
	default:
		return false
	}
}

// Job is a posting owned by exactly one staff user.
type Job struct {
	ID          string
	Title       string
	Description string
	Location    string
	JobType     JobType
	Category    string
	Specialty   string
	PayRate     string
	Company     string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
