package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/events"
)

func TestActivityEventsAreAudited(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	issued, err := f.invitations.Issue(ctx, f.owner, "rec@example.com")
	require.NoError(t, err)
	_, err = f.invitations.Redeem(ctx, issued.Token)
	require.NoError(t, err)

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")
	_, err = f.pipeline.AddNote(ctx, f.recruiterA, app.ID, "Left voicemail")
	require.NoError(t, err)

	messages := f.drain(t)
	require.Len(t, messages, 1)

	activity := f.metrics.Snapshot().Activity
	for _, eventType := range []events.EventType{
		events.EventInvitationIssued,
		events.EventInvitationRedeemed,
		events.EventApplicationNoteAdded,
	} {
		require.EqualValues(t, 1, activity[string(eventType)], eventType)
	}
	require.Zero(t, activity[string(events.EventApplicationSubmitted)])
}
