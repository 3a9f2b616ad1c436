package domain

// PipelineStatus is a canonical recruiter-side application stage.
type PipelineStatus string

const (
	StatusApplied             PipelineStatus = "applied"
	StatusReviewing           PipelineStatus = "reviewing"
	StatusContacted           PipelineStatus = "contacted"
	StatusSubmittedToFacility PipelineStatus = "submitted_to_facility"
	StatusInterviewScheduled  PipelineStatus = "interview_scheduled"
	StatusOfferReceived       PipelineStatus = "offer_received"
	StatusPlaced              PipelineStatus = "placed"
	StatusAssignmentCompleted PipelineStatus = "assignment_completed"
	StatusRejected            PipelineStatus = "rejected"
)

// DefaultPipelineStatus is assigned on submission and used as the
// normalization fallback.
const DefaultPipelineStatus = StatusApplied

var pipelineStatuses = []PipelineStatus{
	StatusApplied,
	StatusReviewing,
	StatusContacted,
	StatusSubmittedToFacility,
	StatusInterviewScheduled,
	StatusOfferReceived,
	StatusPlaced,
	StatusAssignmentCompleted,
	StatusRejected,
}

// legacyStatuses maps vocabularies found on older records onto canonical
// values. Reads only; writes always use canonical values.
var legacyStatuses = map[string]PipelineStatus{
	"pending":   StatusApplied,
	"new":       StatusApplied,
	"accepted":  StatusOfferReceived,
	"contacted": StatusContacted,
	"interview": StatusInterviewScheduled,
	"hired":     StatusPlaced,
	"rejected":  StatusRejected,
}

// AllPipelineStatuses returns the canonical statuses in progression order.
func AllPipelineStatuses() []PipelineStatus {
	out := make([]PipelineStatus, len(pipelineStatuses))
	copy(out, pipelineStatuses)
	return out
}

// ParsePipelineStatus is a strict membership test that also returns the typed value.
func ParsePipelineStatus(value string) (PipelineStatus, bool) {
	switch s := PipelineStatus(value); s {
	case StatusApplied, StatusReviewing, StatusContacted, StatusSubmittedToFacility,
		StatusInterviewScheduled, StatusOfferReceived, StatusPlaced,
		StatusAssignmentCompleted, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// IsValidCanonical is the sole gate for client supplied transition targets.
func IsValidCanonical(value string) bool {
	_, ok := ParsePipelineStatus(value)
	return ok
}

// NormalizeToCanonical never fails: canonical values pass through, legacy
// aliases are mapped, anything else becomes DefaultPipelineStatus. Matching
// is exact, so "Hired" or " pending " fall back to the default.
func NormalizeToCanonical(value string) PipelineStatus {
	if s, ok := ParsePipelineStatus(value); ok {
		return s
	}
	if s, ok := legacyStatuses[value]; ok {
		return s
	}
	return DefaultPipelineStatus
}

// Label is the human readable name shown on the recruiter board.
func (s PipelineStatus) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusReviewing:
		return "Reviewing"
	case StatusContacted:
		return "Contacted"
	case StatusSubmittedToFacility:
		return "Submitted to Facility"
	case StatusInterviewScheduled:
		return "Interview Scheduled"
	case StatusOfferReceived:
		return "Offer Received"
	case StatusPlaced:
		return "Placed"
	case StatusAssignmentCompleted:
		return "Assignment Completed"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// ApplicantStatus is the simplified status a candidate sees.
type ApplicantStatus string

const (
	ApplicantApplied     ApplicantStatus = "applied"
	ApplicantUnderReview ApplicantStatus = "under review"
	ApplicantOffer       ApplicantStatus = "offer"
	ApplicantPlaced      ApplicantStatus = "placed"
	ApplicantNotSelected ApplicantStatus = "not selected"
)

// AllApplicantStatuses lists the five applicant facing labels.
func AllApplicantStatuses() []ApplicantStatus {
	return []ApplicantStatus{
		ApplicantApplied,
		ApplicantUnderReview,
		ApplicantOffer,
		ApplicantPlaced,
		ApplicantNotSelected,
	}
}

// ForApplicant collapses a canonical status into its applicant label.
func (s PipelineStatus) ForApplicant() ApplicantStatus {
	switch s {
	case StatusApplied:
		return ApplicantApplied
	case StatusReviewing, StatusContacted, StatusSubmittedToFacility, StatusInterviewScheduled:
		return ApplicantUnderReview
	case StatusOfferReceived:
		return ApplicantOffer
	case StatusPlaced, StatusAssignmentCompleted:
		return ApplicantPlaced
	case StatusRejected:
		return ApplicantNotSelected
	default:
		return NormalizeToCanonical(string(s)).ForApplicant()
	}
}

// ProjectForApplicant normalizes any stored value and projects it.
func ProjectForApplicant(value string) ApplicantStatus {
	return NormalizeToCanonical(value).ForApplicant()
}
