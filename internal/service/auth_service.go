package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/auth"
	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/repository"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
	"github.com/spec-kit/staffing-board/pkg/util/tokenutil"
)

// AuthService decides which role an account receives and runs the
// registration, invite acceptance, login and password flows.
type AuthService struct {
	users       repository.UserRepository
	resets      repository.PasswordResetRepository
	invitations *InvitationService
	tokens      *auth.TokenManager
	policy      auth.PasswordPolicy
	bcryptCost  int
	resetTTL    time.Duration
	clientURL   string
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Invitations       *InvitationService
	Tokens            *auth.TokenManager
	PasswordPolicy    auth.PasswordPolicy
	BcryptCost        int
	ResetTTL          time.Duration
	ClientURL         string
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
	Now               func() time.Time
}

// RegisterInput is a public signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// AcceptInviteInput redeems an invitation into an account.
type AcceptInviteInput struct {
	Token    string
	Name     string
	Password string
	Phone    string
}

// ProfileUpdate changes the mutable profile fields.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// Session is an authenticated user with a fresh access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	resetTTL := deps.ResetTTL
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &AuthService{
		users:       deps.UserRepo,
		resets:      deps.PasswordResetRepo,
		invitations: deps.Invitations,
		tokens:      deps.Tokens,
		policy:      deps.PasswordPolicy,
		bcryptCost:  deps.BcryptCost,
		resetTTL:    resetTTL,
		clientURL:   strings.TrimRight(deps.ClientURL, "/"),
		dispatcher:  deps.Dispatcher,
		logger:      loggerOrNop(deps.Logger),
		now:         clockOrDefault(deps.Now),
	}
}

// ResolveRoleForRegistration makes the very first account the owner and
// every later public signup an applicant.
func (s *AuthService) ResolveRoleForRegistration(ctx context.Context) (domain.Role, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return domain.RoleOwner, nil
	}
	return domain.RoleApplicant, nil
}

// ResolveRoleForInvite returns the role an invitation grants. Only recruiter
// invitations grant anything.
func ResolveRoleForInvite(inv *domain.Invitation) (domain.Role, bool) {
	if inv == nil || inv.Role != domain.RoleRecruiter {
		return "", false
	}
	return domain.RoleRecruiter, true
}

// Register creates a public account. Staff roles are never reachable here
// except the one-time owner bootstrap.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	email := domain.NormalizeEmail(input.Email)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if !validEmail(email) {
		return nil, apperrors.NewValidationError("a valid email is required", map[string]any{"field": "email"})
	}
	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("an account with this email already exists", nil)
	} else if !isNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	role, err := s.ResolveRoleForRegistration(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         role,
	}
	err = s.users.Create(ctx, user)
	if errors.Is(err, repository.ErrOwnerExists) {
		// lost the first-owner race to a concurrent signup
		user.Role = domain.RoleApplicant
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("an account with this email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if user.Role == domain.RoleOwner {
		s.logger.Info("owner account bootstrapped", zap.String("user_id", user.ID))
	}
	return s.session(user)
}

// AcceptInvite redeems an invitation, upgrading an existing applicant
// account or creating a recruiter account.
func (s *AuthService) AcceptInvite(ctx context.Context, input AcceptInviteInput) (*Session, error) {
	if strings.TrimSpace(input.Token) == "" {
		return nil, apperrors.NewValidationError("token is required", map[string]any{"field": "token"})
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	pending, err := s.invitations.Lookup(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, pending.Email)
	switch {
	case err == nil:
		if existing.Role.IsStaff() {
			return nil, apperrors.NewConflict("You already have an account with this access", nil)
		}
	case isNotFound(err):
		existing = nil
	default:
		return nil, apperrors.MapError(err)
	}

	inv, err := s.invitations.Redeem(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	role, ok := ResolveRoleForInvite(inv)
	if !ok {
		return nil, apperrors.NewInvalidOrExpired()
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if existing != nil {
		existing.Role = role
		existing.Name = name
		existing.PasswordHash = hash
		if phone := strings.TrimSpace(input.Phone); phone != "" {
			existing.Phone = phone
		}
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.logger.Info("account upgraded by invitation",
			zap.String("user_id", existing.ID),
			zap.String("invitation_id", inv.ID))
		return s.session(existing)
	}

	user := &domain.User{
		Name:         name,
		Email:        inv.Email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("You already have an account with this access", nil)
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("account created by invitation",
		zap.String("user_id", user.ID),
		zap.String("invitation_id", inv.ID))
	return s.session(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.PasswordMatches(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.session(user)
}

// Me reloads the current user.
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile changes name and phone. Email and role are not editable here.
func (s *AuthService) UpdateProfile(ctx context.Context, actor domain.Actor, update ProfileUpdate) (*domain.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", map[string]any{"field": "name"})
		}
		user.Name = name
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return err
	}
	if !auth.PasswordMatches(user.PasswordHash, currentPassword) {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// RequestPasswordReset creates a one-time reset token for a known email and
// queues the reset link to it. Unknown emails return an empty token and no
// error so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", apperrors.MapError(err)
	}

	token, hash, err := mintToken()
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	now := s.now()
	reset := &domain.PasswordReset{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: now.Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return "", apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventPasswordResetRequested,
		SubjectID: user.ID,
		Payload: events.PasswordResetRequestedPayload{
			Name:      user.Name,
			Email:     user.Email,
			ResetLink: s.clientURL + "/reset-password/" + token,
			ExpiresAt: reset.ExpiresAt,
		},
	}, now)
	return token, nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewInvalidOrExpired()
	}

	reset, err := s.resets.Consume(ctx, tokenutil.FingerprintToken(token), s.now())
	if err != nil {
		if isNotFound(err) {
			return apperrors.NewInvalidOrExpired()
		}
		return apperrors.MapError(err)
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NewInvalidOrExpired()
		}
		return apperrors.MapError(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) session(user *domain.User) (*Session, error) {
	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}
