package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/domain"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")

	statusOf := func() domain.PipelineStatus {
		stored, err := f.store.Applications().GetByID(ctx, app.ID)
		require.NoError(t, err)
		return stored.Status
	}

	for _, target := range []string{"Reviewing", " reviewing", "hired", "", "under review"} {
		_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, app.ID, target)
		require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidStatus), "target %q", target)
	}
	require.Equal(t, domain.StatusApplied, statusOf())

	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterB, app.ID, "reviewing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
	require.Equal(t, domain.StatusApplied, statusOf())

	_, err = f.pipeline.UpdateStatus(ctx, f.recruiterA, "missing", "reviewing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))

	f.clock.Advance(time.Minute)
	updated, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, app.ID, "reviewing")
	require.NoError(t, err)
	require.Equal(t, domain.StatusReviewing, updated.Status)
	require.Equal(t, f.recruiterA.ID, *updated.LastUpdatedBy)
	require.Equal(t, f.clock.Now(), *updated.LastUpdatedAt)
	require.Equal(t, domain.StatusReviewing, statusOf())

	_, err = f.pipeline.UpdateStatus(ctx, f.owner, app.ID, "offer_received")
	require.NoError(t, err)

	history, err := f.pipeline.History(ctx, f.recruiterA, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.StatusApplied, history[0].FromStatus)
	require.Equal(t, domain.StatusReviewing, history[0].ToStatus)
	require.Equal(t, domain.StatusOfferReceived, history[1].ToStatus)

	_, err = f.pipeline.History(ctx, f.recruiterB, app.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))

	snap := f.metrics.Snapshot()
	require.Equal(t, int64(1), snap.Transitions["reviewing"])
	require.Equal(t, int64(1), snap.Transitions["offer_received"])
}

func TestUpdateStatusNotifiesApplicantWithProjectedLabel(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")

	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, app.ID, "submitted_to_facility")
	require.NoError(t, err)

	messages := f.drain(t)
	require.Len(t, messages, 2)

	bySubject := map[string]string{}
	for _, msg := range messages {
		require.Equal(t, "jane@example.com", msg.To)
		require.Equal(t, "noreply@board.example.com", msg.From)
		bySubject[msg.Subject] = msg.Body
	}
	require.Contains(t, bySubject, "Application received – Travel RN")
	body, ok := bySubject["Application update – Travel RN"]
	require.True(t, ok)
	require.Contains(t, body, "Hi Jane Doe")
	require.Contains(t, body, string(domain.ApplicantUnderReview))
	require.NotContains(t, body, "submitted_to_facility")
	require.NotContains(t, body, domain.StatusSubmittedToFacility.Label())
}

func TestUpdateStatusSucceedsWhenOutboxRejects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.outbox.Close()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")

	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, app.ID, "contacted")
	require.NoError(t, err)
	f.dispatcher.Wait()

	require.Equal(t, int64(2), f.metrics.Snapshot().Notifications["dropped"])
}

func TestAddNote(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")

	_, err := f.pipeline.AddNote(ctx, f.recruiterA, app.ID, "   ")
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.pipeline.AddNote(ctx, f.recruiterB, app.ID, "sneaky")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))

	note, err := f.pipeline.AddNote(ctx, f.recruiterA, app.ID, "  Left voicemail  ")
	require.NoError(t, err)
	require.Equal(t, "Left voicemail", note.Text)
	require.Equal(t, f.recruiterA.ID, note.AuthorID)

	stored, err := f.store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, stored.Notes, 1)
	require.Equal(t, "Left voicemail", stored.Notes[0].Text)
}

func TestGetGroupedHasEveryBucket(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	jobA := f.createJob(t, f.recruiterA, "Travel RN")
	jobB := f.createJob(t, f.recruiterB, "CNA")
	appA := f.submit(t, nil, jobA.ID, "Jane", "jane@example.com")
	f.submit(t, nil, jobB.ID, "John", "john@example.com")

	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, appA.ID, "placed")
	require.NoError(t, err)

	grouped, err := f.pipeline.GetGrouped(ctx, f.recruiterA)
	require.NoError(t, err)
	require.Len(t, grouped.Buckets, len(domain.AllPipelineStatuses()))
	for _, status := range domain.AllPipelineStatuses() {
		require.NotNil(t, grouped.Buckets[status], "bucket %s", status)
	}
	require.Equal(t, 1, grouped.Total)
	require.Len(t, grouped.Buckets[domain.StatusPlaced], 1)
	require.Empty(t, grouped.Buckets[domain.StatusApplied])

	all, err := f.pipeline.GetGrouped(ctx, f.owner)
	require.NoError(t, err)
	require.Equal(t, 2, all.Total)
	require.Len(t, all.Buckets[domain.StatusApplied], 1)

	_, err = f.pipeline.GetGrouped(ctx, domain.Actor{ID: "c", Role: domain.RoleApplicant})
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
}

func TestGetGroupedNormalizesLegacyStatuses(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	legacy := &domain.Application{JobID: job.ID, FirstName: "Old", Email: "old@example.com", Status: "hired"}
	require.NoError(t, f.store.Applications().Create(ctx, legacy))

	grouped, err := f.pipeline.GetGrouped(ctx, f.recruiterA)
	require.NoError(t, err)
	require.Len(t, grouped.Buckets[domain.StatusPlaced], 1)
}

func TestGetForJobOrdersByLastActivity(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	first := f.submit(t, nil, job.ID, "First", "first@example.com")
	f.clock.Advance(time.Minute)
	second := f.submit(t, nil, job.ID, "Second", "second@example.com")
	f.clock.Advance(time.Minute)
	third := f.submit(t, nil, job.ID, "Third", "third@example.com")
	f.clock.Advance(time.Minute)

	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, first.ID, "contacted")
	require.NoError(t, err)

	apps, err := f.pipeline.GetForJob(ctx, f.recruiterA, job.ID)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	require.Equal(t, []string{first.ID, third.ID, second.ID}, []string{apps[0].ID, apps[1].ID, apps[2].ID})

	_, err = f.pipeline.GetForJob(ctx, f.recruiterB, job.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
	_, err = f.pipeline.GetForJob(ctx, f.owner, "missing")
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
}

func TestExportCSV(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")
	f.clock.Advance(time.Minute)
	_, err := f.pipeline.UpdateStatus(ctx, f.recruiterA, app.ID, "interview_scheduled")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.pipeline.ExportCSV(ctx, f.recruiterA, job.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "id", records[0][0])
	row := records[1]
	require.Equal(t, app.ID, row[0])
	require.Equal(t, "CO", row[6])
	require.Equal(t, "4", row[7])
	require.Equal(t, "interview_scheduled", row[8])
	require.Equal(t, domain.StatusInterviewScheduled.Label(), row[9])

	buf.Reset()
	err = f.pipeline.ExportCSV(ctx, f.recruiterB, job.ID, &buf)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
	require.Zero(t, buf.Len())
}

func TestResumeFor(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	job := f.createJob(t, f.recruiterA, "Travel RN")
	candidate := domain.Actor{ID: "cand-1", Email: "jane@example.com", Role: domain.RoleApplicant}
	app := f.submit(t, &candidate, job.ID, "Jane", "jane@example.com")

	tests := []struct {
		name  string
		actor domain.Actor
		ok    bool
	}{
		{name: "submitter", actor: candidate, ok: true},
		{name: "job owner", actor: f.recruiterA, ok: true},
		{name: "owner", actor: f.owner, ok: true},
		{name: "other recruiter", actor: f.recruiterB, ok: false},
		{name: "other applicant", actor: domain.Actor{ID: "cand-2", Email: "other@example.com", Role: domain.RoleApplicant}, ok: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			key, err := f.pipeline.ResumeFor(ctx, tt.actor, app.ID)
			if tt.ok {
				require.NoError(t, err)
				require.Equal(t, "resumes/Jane.pdf", key)
				return
			}
			require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
		})
	}
}
