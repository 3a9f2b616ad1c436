package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/repository"
)

type invitationRepository struct {
	s *Store
}

func (r *invitationRepository) CreateIfNoPending(_ context.Context, inv *domain.Invitation, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.invitations {
		if existing.Email == inv.Email && existing.IsPending(now) {
			return repository.ErrPendingInvitation
		}
		if existing.TokenHash == inv.TokenHash {
			return repository.ErrDuplicate
		}
	}

	inv.ID = newID()
	inv.Used = false
	inv.CreatedAt = now
	inv.UpdatedAt = now
	r.s.invitations[inv.ID] = *inv
	return nil
}

func (r *invitationRepository) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inv, ok := r.s.invitations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &inv, nil
}

func (r *invitationRepository) FindValidByTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inv, ok := r.findByHash(tokenHash)
	if !ok || !inv.IsPending(now) {
		return nil, pgx.ErrNoRows
	}
	return &inv, nil
}

func (r *invitationRepository) ConsumeByTokenHash(_ context.Context, tokenHash string, now time.Time) (*domain.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.findByHash(tokenHash)
	if !ok || !inv.IsPending(now) {
		return nil, pgx.ErrNoRows
	}
	inv.Used = true
	inv.UpdatedAt = now
	r.s.invitations[inv.ID] = inv
	return &inv, nil
}

func (r *invitationRepository) RotateToken(_ context.Context, id, tokenHash string, expiresAt, now time.Time) (*domain.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.s.invitations[id]
	if !ok || !inv.IsPending(now) {
		return nil, pgx.ErrNoRows
	}
	inv.TokenHash = tokenHash
	inv.ExpiresAt = expiresAt
	inv.UpdatedAt = now
	r.s.invitations[id] = inv
	return &inv, nil
}

func (r *invitationRepository) MarkUsed(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inv, ok := r.s.invitations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	inv.Used = true
	inv.UpdatedAt = r.s.now()
	r.s.invitations[id] = inv
	return nil
}

func (r *invitationRepository) ListByIssuer(_ context.Context, issuerID string) ([]domain.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []domain.Invitation
	for _, inv := range r.s.invitations {
		if inv.InvitedBy == issuerID {
			result = append(result, inv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// findByHash must be called with the lock held.
func (r *invitationRepository) findByHash(tokenHash string) (domain.Invitation, bool) {
	for _, inv := range r.s.invitations {
		if inv.TokenHash == tokenHash {
			return inv, true
		}
	}
	return domain.Invitation{}, false
}

type passwordResetRepository struct {
	s *Store
}

func (r *passwordResetRepository) Create(_ context.Context, reset *domain.PasswordReset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	reset.ID = newID()
	reset.CreatedAt = r.s.now()
	r.s.resets[reset.ID] = *reset
	return nil
}

func (r *passwordResetRepository) Consume(_ context.Context, tokenHash string, now time.Time) (*domain.PasswordReset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, reset := range r.s.resets {
		if reset.TokenHash != tokenHash {
			continue
		}
		if reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
			return nil, pgx.ErrNoRows
		}
		used := now
		reset.UsedAt = &used
		r.s.resets[id] = reset
		return &reset, nil
	}
	return nil, pgx.ErrNoRows
}
