package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/repository"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
	"github.com/spec-kit/staffing-board/pkg/util/tokenutil"
)

// InvitationService is the ledger of single-use recruiter invitations. Only
// token fingerprints are persisted; a plaintext token leaves this service
// exactly once, in the result of Issue or Resend.
type InvitationService struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	ttl         time.Duration
	clientURL   string
	now         func() time.Time
}

// InvitationDependencies bundles what the ledger needs.
type InvitationDependencies struct {
	InvitationRepo repository.InvitationRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	TTL            time.Duration
	ClientURL      string
	Now            func() time.Time
}

// IssuedInvitation carries the one-time plaintext token.
type IssuedInvitation struct {
	Invitation *domain.Invitation
	Token      string
	InviteLink string
}

// NewInvitationService constructs the service.
func NewInvitationService(deps InvitationDependencies) *InvitationService {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = domain.DefaultInvitationTTL
	}
	return &InvitationService{
		invitations: deps.InvitationRepo,
		users:       deps.UserRepo,
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
		ttl:         ttl,
		clientURL:   strings.TrimRight(deps.ClientURL, "/"),
		now:         clockOrDefault(deps.Now),
	}
}

// Issue offers the recruiter role to email.
func (s *InvitationService) Issue(ctx context.Context, issuer domain.Actor, email string) (*IssuedInvitation, error) {
	if !issuer.Role.CanInviteRecruiter() {
		return nil, apperrors.NewNotAuthorized()
	}

	email = domain.NormalizeEmail(email)
	if !validEmail(email) {
		return nil, apperrors.NewValidationError("a valid email is required", map[string]any{"field": "email"})
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role.IsStaff() {
			return nil, apperrors.NewConflict("this user already has recruiter access", nil)
		}
	case !isNotFound(err):
		return nil, apperrors.MapError(err)
	}

	token, hash, err := mintToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	inv := &domain.Invitation{
		Email:     email,
		Role:      domain.RoleRecruiter,
		TokenHash: hash,
		ExpiresAt: now.Add(s.ttl),
		InvitedBy: issuer.ID,
	}
	if err := s.invitations.CreateIfNoPending(ctx, inv, now); err != nil {
		if errors.Is(err, repository.ErrPendingInvitation) {
			return nil, apperrors.NewConflict("an invitation is already pending for this email", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("invitation issued",
		zap.String("invitation_id", inv.ID),
		zap.String("issuer_id", issuer.ID))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventInvitationIssued,
		SubjectID: inv.ID,
		Actor:     events.ActorFrom(issuer),
		Payload:   events.InvitationPayload{Email: inv.Email, Role: inv.Role},
	}, now)

	return s.issued(inv, token), nil
}

// Redeem consumes a token exactly once. Unknown, used and expired tokens are
// indistinguishable to the caller.
func (s *InvitationService) Redeem(ctx context.Context, token string) (*domain.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewInvalidOrExpired()
	}

	now := s.now()
	inv, err := s.invitations.ConsumeByTokenHash(ctx, tokenutil.FingerprintToken(token), now)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewInvalidOrExpired()
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("invitation redeemed", zap.String("invitation_id", inv.ID))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventInvitationRedeemed,
		SubjectID: inv.ID,
		Payload:   events.InvitationPayload{Email: inv.Email, Role: inv.Role},
	}, now)
	return inv, nil
}

// Resend rotates the token of a still-pending invitation and restarts its TTL.
func (s *InvitationService) Resend(ctx context.Context, issuer domain.Actor, id string) (*IssuedInvitation, error) {
	inv, err := s.ownInvitation(ctx, issuer, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !inv.IsPending(now) {
		return nil, apperrors.NewInvalidOrExpired()
	}

	token, hash, err := mintToken()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	rotated, err := s.invitations.RotateToken(ctx, inv.ID, hash, now.Add(s.ttl), now)
	if err != nil {
		if isNotFound(err) {
			// redeemed, revoked or expired between the read and the update
			return nil, apperrors.NewInvalidOrExpired()
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("invitation resent", zap.String("invitation_id", rotated.ID))
	return s.issued(rotated, token), nil
}

// Revoke permanently disables an invitation. Revoking twice is harmless.
func (s *InvitationService) Revoke(ctx context.Context, issuer domain.Actor, id string) error {
	inv, err := s.ownInvitation(ctx, issuer, id)
	if err != nil {
		return err
	}
	if err := s.invitations.MarkUsed(ctx, inv.ID); err != nil {
		if isNotFound(err) {
			return apperrors.NewNotFound("invitation", nil)
		}
		return apperrors.MapError(err)
	}
	s.logger.Info("invitation revoked", zap.String("invitation_id", inv.ID))
	return nil
}

// Verify reports the target email of a redeemable token without consuming it.
func (s *InvitationService) Verify(ctx context.Context, token string) (string, error) {
	inv, err := s.Lookup(ctx, token)
	if err != nil {
		return "", err
	}
	return inv.Email, nil
}

// Lookup is the read-only form of Redeem: same validity predicate, no state change.
func (s *InvitationService) Lookup(ctx context.Context, token string) (*domain.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewInvalidOrExpired()
	}
	inv, err := s.invitations.FindValidByTokenHash(ctx, tokenutil.FingerprintToken(token), s.now())
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewInvalidOrExpired()
		}
		return nil, apperrors.MapError(err)
	}
	return inv, nil
}

// List returns the issuer's invitations, newest first.
func (s *InvitationService) List(ctx context.Context, issuer domain.Actor) ([]domain.Invitation, error) {
	if !issuer.Role.CanInviteRecruiter() {
		return nil, apperrors.NewNotAuthorized()
	}
	invitations, err := s.invitations.ListByIssuer(ctx, issuer.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invitations, nil
}

// ListRecruiters returns every account holding the recruiter role.
func (s *InvitationService) ListRecruiters(ctx context.Context, issuer domain.Actor) ([]domain.User, error) {
	if !issuer.Role.CanInviteRecruiter() {
		return nil, apperrors.NewNotAuthorized()
	}
	users, err := s.users.ListByRole(ctx, domain.RoleRecruiter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func (s *InvitationService) ownInvitation(ctx context.Context, issuer domain.Actor, id string) (*domain.Invitation, error) {
	if !issuer.Role.CanInviteRecruiter() {
		return nil, apperrors.NewNotAuthorized()
	}
	inv, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewNotFound("invitation", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if inv.InvitedBy != issuer.ID {
		return nil, apperrors.NewNotAuthorized()
	}
	return inv, nil
}

func (s *InvitationService) issued(inv *domain.Invitation, token string) *IssuedInvitation {
	return &IssuedInvitation{
		Invitation: inv,
		Token:      token,
		InviteLink: fmt.Sprintf("%s/invite/%s", s.clientURL, token),
	}
}

func mintToken() (token, hash string, err error) {
	token, err = tokenutil.GenerateToken(tokenutil.DefaultSize)
	if err != nil {
		return "", "", err
	}
	return token, tokenutil.FingerprintToken(token), nil
}
