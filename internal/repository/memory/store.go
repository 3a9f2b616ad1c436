// Package memory keeps every repository in process memory. It backs local
// runs without POSTGRES_DSN and the service tests, and mirrors the atomic
// conditional updates of the Postgres implementations under a single mutex.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/repository"
)

// Store holds all tables.
type Store struct {
	mu sync.RWMutex

	// Now stamps created_at values. Defaults to time.Now.
	Now func() time.Time

	users         map[string]domain.User
	jobs          map[string]domain.Job
	applications  map[string]domain.Application
	statusChanges map[string][]domain.StatusChange
	invitations   map[string]domain.Invitation
	resets        map[string]domain.PasswordReset
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Now:           time.Now,
		users:         make(map[string]domain.User),
		jobs:          make(map[string]domain.Job),
		applications:  make(map[string]domain.Application),
		statusChanges: make(map[string][]domain.StatusChange),
		invitations:   make(map[string]domain.Invitation),
		resets:        make(map[string]domain.PasswordReset),
	}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func newID() string {
	return uuid.NewString()
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Jobs returns the job repository view of the store.
func (s *Store) Jobs() repository.JobRepository { return &jobRepository{s} }

// Applications returns the application repository view of the store.
func (s *Store) Applications() repository.ApplicationRepository { return &applicationRepository{s} }

// StatusHistory returns the transition log view of the store.
func (s *Store) StatusHistory() repository.StatusHistoryRepository { return &statusHistoryRepository{s} }

// Invitations returns the invitation ledger view of the store.
func (s *Store) Invitations() repository.InvitationRepository { return &invitationRepository{s} }

// PasswordResets returns the password reset view of the store.
func (s *Store) PasswordResets() repository.PasswordResetRepository { return &passwordResetRepository{s} }
