package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staffing-board/internal/auth"
	"github.com/spec-kit/staffing-board/internal/config"
	"github.com/spec-kit/staffing-board/internal/domain"
	"github.com/spec-kit/staffing-board/internal/events"
	"github.com/spec-kit/staffing-board/internal/notify"
	"github.com/spec-kit/staffing-board/internal/observability"
	"github.com/spec-kit/staffing-board/internal/repository/memory"
	"github.com/spec-kit/staffing-board/internal/service"
)

const strongPassword = "Str0ngPassphrase"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store         *memory.Store
	clock         *testClock
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	outbox        *notify.MemoryOutbox
	invitations   *service.InvitationService
	auth          *service.AuthService
	pipeline      *service.PipelineService
	jobs          *service.JobService
	applications  *service.ApplicationService
	notifications *service.NotificationService

	owner      domain.Actor
	recruiterA domain.Actor
	recruiterB domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	store.Now = clock.Now
	dispatcher := events.NewAsyncDispatcher(nil)
	metrics := observability.NewMetrics()
	outbox := notify.NewMemoryOutbox(64)
	access := auth.NewAccessResolver(store.Jobs(), store.Applications())

	f := &fixture{
		store:      store,
		clock:      clock,
		dispatcher: dispatcher,
		metrics:    metrics,
		outbox:     outbox,
		owner:      domain.Actor{ID: "owner-1", Email: "owner@example.com", Role: domain.RoleOwner},
		recruiterA: domain.Actor{ID: "rec-a", Email: "a@example.com", Role: domain.RoleRecruiter},
		recruiterB: domain.Actor{ID: "rec-b", Email: "b@example.com", Role: domain.RoleRecruiter},
	}

	f.invitations = service.NewInvitationService(service.InvitationDependencies{
		InvitationRepo: store.Invitations(),
		UserRepo:       store.Users(),
		Dispatcher:     dispatcher,
		ClientURL:      "https://board.example.com/",
		Now:            clock.Now,
	})
	f.auth = service.NewAuthService(service.AuthDependencies{
		UserRepo:          store.Users(),
		PasswordResetRepo: store.PasswordResets(),
		Invitations:       f.invitations,
		Tokens:            auth.NewTokenManager("test-secret", time.Hour),
		PasswordPolicy:    auth.PasswordPolicy{MinLength: 8},
		BcryptCost:        bcrypt.MinCost,
		ResetTTL:          time.Hour,
		ClientURL:         "https://board.example.com",
		Dispatcher:        dispatcher,
		Now:               clock.Now,
	})
	f.pipeline = service.NewPipelineService(service.PipelineDependencies{
		ApplicationRepo: store.Applications(),
		JobRepo:         store.Jobs(),
		HistoryRepo:     store.StatusHistory(),
		Access:          access,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Now:             clock.Now,
	})
	f.jobs = service.NewJobService(store.Jobs(), access, nil)
	f.applications = service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: store.Applications(),
		JobRepo:         store.Jobs(),
		Dispatcher:      dispatcher,
		Now:             clock.Now,
	})
	f.notifications = service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		JobRepo:    store.Jobs(),
		Outbox:     outbox,
		Metrics:    metrics,
		Config:     config.NotificationConfig{EmailFrom: "noreply@board.example.com"},
		Now:        clock.Now,
	})
	f.notifications.RegisterHandlers()

	t.Cleanup(dispatcher.Wait)
	return f
}

func (f *fixture) createJob(t *testing.T, owner domain.Actor, title string) *domain.Job {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), owner, service.JobInput{Title: title, Location: "Denver, CO"})
	require.NoError(t, err)
	return job
}

func (f *fixture) submit(t *testing.T, actor *domain.Actor, jobID, first, email string) *domain.Application {
	t.Helper()
	app, err := f.applications.Submit(context.Background(), actor, jobID, service.SubmitInput{
		FirstName:       first,
		LastName:        "Doe",
		Email:           email,
		LicenseType:     "RN",
		LicenseState:    "co",
		YearsExperience: 4,
		ResumeKey:       "resumes/" + first + ".pdf",
	})
	require.NoError(t, err)
	return app
}

// drain waits for event handlers and returns every queued message.
func (f *fixture) drain(t *testing.T) []notify.Message {
	t.Helper()
	f.dispatcher.Wait()
	var out []notify.Message
	for f.outbox.Len() > 0 {
		msg, ok, err := f.outbox.Dequeue(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		out = append(out, msg)
	}
	return out
}
