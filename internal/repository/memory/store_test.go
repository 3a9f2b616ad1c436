package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/repository"
)

func TestInvitationConsumeIsExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := NewStore().Invitations()

	inv := &domain.Invitation{
		Email:     "nurse.recruiter@example.com",
		Role:      domain.RoleRecruiter,
		TokenHash: "hash-1",
		ExpiresAt: now.Add(48 * time.Hour),
		InvitedBy: "owner-1",
	}
	require.NoError(t, repo.CreateIfNoPending(ctx, inv, now))

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		failures  atomic.Int32
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeByTokenHash(ctx, "hash-1", now); err == nil {
				successes.Add(1)
			} else {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, successes.Load())
	require.EqualValues(t, 31, failures.Load())
}

func TestInvitationPendingUniquenessFollowsExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := NewStore().Invitations()

	first := &domain.Invitation{Email: "a@example.com", TokenHash: "h1", ExpiresAt: now.Add(time.Hour), InvitedBy: "o"}
	require.NoError(t, repo.CreateIfNoPending(ctx, first, now))

	second := &domain.Invitation{Email: "a@example.com", TokenHash: "h2", ExpiresAt: now.Add(2 * time.Hour), InvitedBy: "o"}
	require.ErrorIs(t, repo.CreateIfNoPending(ctx, second, now), repository.ErrPendingInvitation)

	later := now.Add(time.Hour)
	require.NoError(t, repo.CreateIfNoPending(ctx, second, later))

	_, err := repo.ConsumeByTokenHash(ctx, "h1", later)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestRotateTokenRequiresPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := NewStore().Invitations()

	inv := &domain.Invitation{Email: "b@example.com", TokenHash: "old", ExpiresAt: now.Add(time.Hour), InvitedBy: "o"}
	require.NoError(t, repo.CreateIfNoPending(ctx, inv, now))

	rotated, err := repo.RotateToken(ctx, inv.ID, "new", now.Add(48*time.Hour), now)
	require.NoError(t, err)
	require.Equal(t, "new", rotated.TokenHash)

	_, err = repo.FindValidByTokenHash(ctx, "old", now)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, repo.MarkUsed(ctx, inv.ID))
	_, err = repo.RotateToken(ctx, inv.ID, "newer", now.Add(48*time.Hour), now)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestSingleOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := NewStore().Users()

	require.NoError(t, users.Create(ctx, &domain.User{Email: "first@example.com", Role: domain.RoleOwner}))
	require.ErrorIs(t, users.Create(ctx, &domain.User{Email: "second@example.com", Role: domain.RoleOwner}), repository.ErrOwnerExists)
	require.ErrorIs(t, users.Create(ctx, &domain.User{Email: "first@example.com", Role: domain.RoleApplicant}), repository.ErrDuplicate)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestApplicationsAreCopiedOut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore()

	job := &domain.Job{Title: "ICU RN", CreatedBy: "r1"}
	require.NoError(t, store.Jobs().Create(ctx, job))

	applicant := "u1"
	app := &domain.Application{JobID: job.ID, ApplicantID: &applicant, Email: "c@example.com", Status: domain.StatusApplied}
	require.NoError(t, store.Applications().Create(ctx, app))

	dup := &domain.Application{JobID: job.ID, ApplicantID: &applicant, Email: "c@example.com"}
	require.ErrorIs(t, store.Applications().Create(ctx, dup), repository.ErrDuplicate)

	require.NoError(t, store.Applications().AppendNote(ctx, app.ID, &domain.Note{Text: "called", AuthorID: "r1"}))

	loaded, err := store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Notes, 1)
	loaded.Notes[0].Text = "mutated"

	again, err := store.Applications().GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, "called", again.Notes[0].Text)
}
