package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeToCanonicalIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, s := range AllPipelineStatuses() {
		require.Equal(t, s, NormalizeToCanonical(string(s)))
		require.True(t, IsValidCanonical(string(s)))
	}
}

func TestNormalizeToCanonicalLegacyAliases(t *testing.T) {
	t.Parallel()

	tests := map[string]PipelineStatus{
		"pending":   StatusApplied,
		"new":       StatusApplied,
		"accepted":  StatusOfferReceived,
		"contacted": StatusContacted,
		"interview": StatusInterviewScheduled,
		"hired":     StatusPlaced,
		"rejected":  StatusRejected,
	}
	for legacy, want := range tests {
		require.Equal(t, want, NormalizeToCanonical(legacy), legacy)
	}
}

func TestNormalizeToCanonicalUnknownFallsBack(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "archived", "on_hold", "APPLIED", "Hired", " pending "} {
		require.Equal(t, DefaultPipelineStatus, NormalizeToCanonical(value), value)
	}
}

func TestIsValidCanonicalIsStrict(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "pending", "hired", "interview", "Placed", " applied"} {
		require.False(t, IsValidCanonical(value), value)
	}
}

func TestProjectForApplicant(t *testing.T) {
	t.Parallel()

	want := map[PipelineStatus]ApplicantStatus{
		StatusApplied:             ApplicantApplied,
		StatusReviewing:           ApplicantUnderReview,
		StatusContacted:           ApplicantUnderReview,
		StatusSubmittedToFacility: ApplicantUnderReview,
		StatusInterviewScheduled:  ApplicantUnderReview,
		StatusOfferReceived:       ApplicantOffer,
		StatusPlaced:              ApplicantPlaced,
		StatusAssignmentCompleted: ApplicantPlaced,
		StatusRejected:            ApplicantNotSelected,
	}
	require.Len(t, want, len(AllPipelineStatuses()))

	labels := AllApplicantStatuses()
	for _, s := range AllPipelineStatuses() {
		got := ProjectForApplicant(string(s))
		require.Equal(t, want[s], got, s)
		require.Contains(t, labels, got)
		require.Equal(t, got, ProjectForApplicant(string(s)))
	}

	require.Equal(t, ApplicantPlaced, ProjectForApplicant("hired"))
	require.Equal(t, ApplicantApplied, ProjectForApplicant("something-else"))
}

func TestPipelineStatusLabels(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Submitted to Facility", StatusSubmittedToFacility.Label())
	require.Equal(t, "Assignment Completed", StatusAssignmentCompleted.Label())
}

func TestApplicationLastActivity(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	app := Application{CreatedAt: created, Status: "interview"}
	require.Equal(t, created, app.LastActivity())
	require.Equal(t, StatusInterviewScheduled, app.CanonicalStatus())
	require.Equal(t, ApplicantUnderReview, app.ApplicantStatus())

	updated := created.Add(time.Hour)
	app.LastUpdatedAt = &updated
	require.Equal(t, updated, app.LastActivity())
}

func TestInvitationIsPending(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inv := Invitation{ExpiresAt: now.Add(time.Minute)}
	require.True(t, inv.IsPending(now))
	require.False(t, inv.IsPending(now.Add(time.Minute)))

	inv.Used = true
	require.False(t, inv.IsPending(now))
}
