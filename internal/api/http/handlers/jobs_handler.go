package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/api/dto"
	"github.com/spec-kit/staffing-board/internal/service"
)

// JobsHandler exposes postings and the application form.
type JobsHandler struct {
	jobs         *service.JobService
	applications *service.ApplicationService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobs *service.JobService, applications *service.ApplicationService) *JobsHandler {
	return &JobsHandler{jobs: jobs, applications: applications}
}

// List handles GET /jobs.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, jobResponses(jobs))
}

// Get handles GET /jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, jobResponse(job))
}

// Create handles POST /jobs.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.JobRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	job, err := h.jobs.Create(c.UserContext(), actor, service.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		JobType:     req.JobType,
		Category:    req.Category,
		Specialty:   req.Specialty,
		PayRate:     req.PayRate,
		Company:     req.Company,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, jobResponse(job))
}

// Mine handles GET /jobs/mine.
func (h *JobsHandler) Mine(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	jobs, err := h.jobs.ListMine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, jobResponses(jobs))
}

// Delete handles DELETE /jobs/:id.
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.jobs.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Apply handles POST /jobs/:id/applications for signed-in and anonymous candidates.
func (h *JobsHandler) Apply(c *fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.applications.Submit(c.UserContext(), optionalActor(c), c.Params("id"), service.SubmitInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		LicenseType:     req.LicenseType,
		LicenseState:    req.LicenseState,
		YearsExperience: req.YearsExperience,
		ResumeKey:       req.ResumeKey,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.SubmittedApplicationResponse{
		ID:        app.ID,
		JobID:     app.JobID,
		Status:    app.ApplicantStatus(),
		AppliedAt: app.CreatedAt,
	})
}
