package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/service"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

func register(t *testing.T, f *fixture, name, email string) *service.Session {
	t.Helper()
	session, err := f.auth.Register(context.Background(), service.RegisterInput{
		Name: name, Email: email, Password: strongPassword,
	})
	require.NoError(t, err)
	return session
}

func TestRegisterBootstrapsOwnerOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first := register(t, f, "Founder", "founder@example.com")
	require.Equal(t, domain.RoleOwner, first.User.Role)
	require.NotEmpty(t, first.Token)

	claims, err := f.auth.TokenManager().ParseToken(first.Token)
	require.NoError(t, err)
	require.Equal(t, first.User.ID, claims.Subject)

	second := register(t, f, "Nurse", "nurse@example.com")
	require.Equal(t, domain.RoleApplicant, second.User.Role)

	_, err = f.auth.Register(ctx, service.RegisterInput{Name: "Dup", Email: "NURSE@example.com", Password: strongPassword})
	require.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = f.auth.Register(ctx, service.RegisterInput{Name: "Weak", Email: "weak@example.com", Password: "password"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.auth.Register(ctx, service.RegisterInput{Name: " ", Email: "blank@example.com", Password: strongPassword})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "Founder", "founder@example.com")

	session, err := f.auth.Login(ctx, " Founder@Example.com", strongPassword)
	require.NoError(t, err)
	require.Equal(t, "founder@example.com", session.User.Email)

	_, err = f.auth.Login(ctx, "founder@example.com", "Wr0ngPassword")
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	_, err = f.auth.Login(ctx, "ghost@example.com", strongPassword)
	require.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestAcceptInviteUpgradesExistingApplicant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner := register(t, f, "Founder", "founder@example.com")
	applicant := register(t, f, "Casey", "casey@example.com")

	issued, err := f.invitations.Issue(ctx, owner.User.Actor(), "casey@example.com")
	require.NoError(t, err)

	session, err := f.auth.AcceptInvite(ctx, service.AcceptInviteInput{
		Token: issued.Token, Name: "Casey Recruiter", Password: "N3wPassphrase",
	})
	require.NoError(t, err)
	require.Equal(t, applicant.User.ID, session.User.ID)
	require.Equal(t, domain.RoleRecruiter, session.User.Role)

	_, err = f.auth.Login(ctx, "casey@example.com", "N3wPassphrase")
	require.NoError(t, err)

	_, err = f.auth.AcceptInvite(ctx, service.AcceptInviteInput{
		Token: issued.Token, Name: "Again", Password: strongPassword,
	})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOrExpired))
}

func TestAcceptInviteCreatesRecruiter(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner := register(t, f, "Founder", "founder@example.com")
	issued, err := f.invitations.Issue(ctx, owner.User.Actor(), "fresh@example.com")
	require.NoError(t, err)

	session, err := f.auth.AcceptInvite(ctx, service.AcceptInviteInput{
		Token: issued.Token, Name: "Fresh", Password: strongPassword, Phone: "555-0100",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleRecruiter, session.User.Role)
	require.Equal(t, "fresh@example.com", session.User.Email)

	recruiters, err := f.invitations.ListRecruiters(ctx, owner.User.Actor())
	require.NoError(t, err)
	require.Len(t, recruiters, 1)
}

func TestAcceptInviteLeavesInvitationPendingForExistingStaff(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner := register(t, f, "Founder", "founder@example.com")
	issued, err := f.invitations.Issue(ctx, owner.User.Actor(), "dual@example.com")
	require.NoError(t, err)

	// the address became staff through another invitation in the meantime
	require.NoError(t, f.store.Users().Create(ctx, &domain.User{Name: "Dual", Email: "dual@example.com", Role: domain.RoleRecruiter}))

	_, err = f.auth.AcceptInvite(ctx, service.AcceptInviteInput{Token: issued.Token, Name: "Dual", Password: strongPassword})
	require.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	_, err = f.invitations.Verify(ctx, issued.Token)
	require.NoError(t, err)
}

func TestAcceptInviteValidatesBeforeRedeeming(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	owner := register(t, f, "Founder", "founder@example.com")
	issued, err := f.invitations.Issue(ctx, owner.User.Actor(), "weak@example.com")
	require.NoError(t, err)

	_, err = f.auth.AcceptInvite(ctx, service.AcceptInviteInput{Token: issued.Token, Name: "Weak", Password: "short"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.invitations.Verify(ctx, issued.Token)
	require.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	register(t, f, "Founder", "founder@example.com")

	token, err := f.auth.RequestPasswordReset(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.Empty(t, token)

	token, err = f.auth.RequestPasswordReset(ctx, "founder@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	messages := f.drain(t)
	require.Len(t, messages, 1)
	require.Equal(t, "founder@example.com", messages[0].To)
	require.Equal(t, "Reset your password", messages[0].Subject)
	require.True(t, strings.Contains(messages[0].Body, "https://board.example.com/reset-password/"+token))

	require.True(t, apperrors.HasCode(f.auth.ConfirmPasswordReset(ctx, token, "weak"), apperrors.CodeValidation))
	require.NoError(t, f.auth.ConfirmPasswordReset(ctx, token, "Upd4tedPassphrase"))
	require.True(t, apperrors.HasCode(f.auth.ConfirmPasswordReset(ctx, token, "An0therPassphrase"), apperrors.CodeInvalidOrExpired))

	_, err = f.auth.Login(ctx, "founder@example.com", "Upd4tedPassphrase")
	require.NoError(t, err)
}

func TestProfileAndPasswordChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	session := register(t, f, "Founder", "founder@example.com")
	actor := session.User.Actor()

	name := "Founding Owner"
	phone := " 555-0199 "
	user, err := f.auth.UpdateProfile(ctx, actor, service.ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, "Founding Owner", user.Name)
	require.Equal(t, "555-0199", user.Phone)
	require.Equal(t, domain.RoleOwner, user.Role)

	require.True(t, apperrors.HasCode(f.auth.ChangePassword(ctx, actor, "Wr0ngPassword", "N3wPassphrase"), apperrors.CodeUnauthorized))
	require.NoError(t, f.auth.ChangePassword(ctx, actor, strongPassword, "N3wPassphrase"))
	_, err = f.auth.Login(ctx, "founder@example.com", "N3wPassphrase")
	require.NoError(t, err)
}
