package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/api/http/handlers"
	"github.com/spec-kit/staffing-board/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Invites        *handlers.InvitesHandler
	Recruiter      *handlers.RecruiterHandler
	Jobs           *handlers.JobsHandler
	Applications   *handlers.ApplicationsHandler
	AuthMiddleware *auth.AuthMiddleware
	PublicLimiter  *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	limited := cfg.PublicLimiter.Handler()
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", limited, cfg.Auth.Register)
	authGroup.Post("/login", limited, cfg.Auth.Login)
	authGroup.Post("/accept-invite", limited, cfg.Auth.AcceptInvite)
	authGroup.Post("/password/forgot", limited, cfg.Auth.ForgotPassword)
	authGroup.Post("/password/reset", limited, cfg.Auth.ResetPassword)
	authGroup.Get("/me", authenticated, auth.RequireAuthenticated(), cfg.Auth.Me)
	authGroup.Patch("/me", authenticated, auth.RequireAuthenticated(), cfg.Auth.UpdateMe)
	authGroup.Post("/password/change", authenticated, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	invites := app.Group("/invites")
	invites.Get("/verify/:token", limited, cfg.Invites.Verify)
	invites.Post("/", authenticated, auth.RequireOwner(), cfg.Invites.Create)
	invites.Get("/", authenticated, auth.RequireOwner(), cfg.Invites.List)
	invites.Get("/recruiters", authenticated, auth.RequireOwner(), cfg.Invites.ListRecruiters)
	invites.Post("/:id/resend", authenticated, auth.RequireOwner(), cfg.Invites.Resend)
	invites.Post("/:id/revoke", authenticated, auth.RequireOwner(), cfg.Invites.Revoke)

	recruiter := app.Group("/recruiter", authenticated, auth.RequireStaff())
	recruiter.Get("/applications", cfg.Recruiter.Applications)
	recruiter.Patch("/applications/:id/status", cfg.Recruiter.UpdateStatus)
	recruiter.Post("/applications/:id/notes", cfg.Recruiter.AddNote)
	recruiter.Get("/applications/:id/history", cfg.Recruiter.History)
	recruiter.Get("/jobs/:jobId/applicants.csv", cfg.Recruiter.ExportApplicants)
	recruiter.Get("/jobs/:jobId/applicants", cfg.Recruiter.JobApplicants)

	jobs := app.Group("/jobs")
	jobs.Get("/", cfg.Jobs.List)
	jobs.Get("/mine", authenticated, auth.RequireStaff(), cfg.Jobs.Mine)
	jobs.Post("/", authenticated, auth.RequireStaff(), cfg.Jobs.Create)
	jobs.Delete("/:id", authenticated, auth.RequireStaff(), cfg.Jobs.Delete)
	jobs.Post("/:id/applications", cfg.AuthMiddleware.Optional, cfg.Jobs.Apply)
	jobs.Get("/:id", cfg.Jobs.Get)

	applications := app.Group("/applications", authenticated, auth.RequireAuthenticated())
	applications.Get("/mine", cfg.Applications.Mine)
	applications.Get("/check/:jobId", cfg.Applications.Check)
	applications.Get("/:id/resume", cfg.Applications.Resume)
}
