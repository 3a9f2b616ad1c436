package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.RecordRequest("/recruiter/applications", "GET", 200, time.Millisecond)
	m.RecordRequest("/recruiter/applications", "GET", 200, time.Millisecond)
	m.RecordError("/invites", "POST", "CONFLICT")
	m.RecordNotification("queued")
	m.RecordTransition("placed")
	m.RecordActivity("invitation_issued")

	snap := m.Snapshot()
	require.EqualValues(t, 2, snap.Requests["/recruiter/applications|GET|200"])
	require.EqualValues(t, 1, snap.Errors["/invites|POST|CONFLICT"])
	require.EqualValues(t, 1, snap.Notifications["queued"])
	require.EqualValues(t, 1, snap.Transitions["placed"])
	require.EqualValues(t, 1, snap.Activity["invitation_issued"])

	snap.Notifications["queued"] = 99
	require.EqualValues(t, 1, m.Snapshot().Notifications["queued"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordNotification("sent")
	m.RecordTransition("applied")
	m.RecordActivity("invitation_redeemed")
	require.Empty(t, m.Snapshot().Requests)
}
