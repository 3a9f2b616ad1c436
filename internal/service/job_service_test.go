package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/service"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

func TestJobLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.jobs.Create(ctx, domain.Actor{ID: "c", Role: domain.RoleApplicant}, service.JobInput{Title: "RN"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
	_, err = f.jobs.Create(ctx, f.recruiterA, service.JobInput{Title: "  "})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	_, err = f.jobs.Create(ctx, f.recruiterA, service.JobInput{Title: "RN", JobType: "gig"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	job := f.createJob(t, f.recruiterA, "Travel RN")
	require.Equal(t, domain.JobTypeFullTime, job.JobType)
	require.Equal(t, f.recruiterA.ID, job.CreatedBy)
	app := f.submit(t, nil, job.ID, "Jane", "jane@example.com")

	mine, err := f.jobs.ListMine(ctx, f.recruiterA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	other, err := f.jobs.ListMine(ctx, f.recruiterB)
	require.NoError(t, err)
	require.Empty(t, other)

	require.True(t, apperrors.HasCode(f.jobs.Delete(ctx, f.recruiterB, job.ID), apperrors.CodeNotAuthorized))
	require.NoError(t, f.jobs.Delete(ctx, f.owner, job.ID))

	_, err = f.jobs.Get(ctx, job.ID)
	require.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	_, err = f.store.Applications().GetByID(ctx, app.ID)
	require.Error(t, err)
}

func TestListJobsNewestFirst(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	jobs, err := f.jobs.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, jobs)
	require.Empty(t, jobs)

	older := f.createJob(t, f.recruiterA, "Travel RN")
	f.clock.Advance(time.Minute)
	newer := f.createJob(t, f.recruiterB, "ICU RN")

	jobs, err = f.jobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, newer.ID, jobs[0].ID)
	require.Equal(t, older.ID, jobs[1].ID)
}
