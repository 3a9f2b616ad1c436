package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/api/dto"
	"github.com/spec-kit/staffing-board/internal/service"
)

// ApplicationsHandler serves candidates their own applications.
type ApplicationsHandler struct {
	applications *service.ApplicationService
	pipeline     *service.PipelineService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applications *service.ApplicationService, pipeline *service.PipelineService) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, pipeline: pipeline}
}

// Mine handles GET /applications/mine.
func (h *ApplicationsHandler) Mine(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	views, err := h.applications.Mine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	out := make([]dto.ApplicantApplicationResponse, 0, len(views))
	for _, view := range views {
		out = append(out, dto.ApplicantApplicationResponse{
			ID:        view.ID,
			JobID:     view.JobID,
			JobTitle:  view.JobTitle,
			Status:    view.Status,
			AppliedAt: view.AppliedAt,
			UpdatedAt: view.UpdatedAt,
		})
	}
	return data(c, http.StatusOK, out)
}

// Check handles GET /applications/check/:jobId.
func (h *ApplicationsHandler) Check(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	applied, err := h.applications.HasApplied(c.UserContext(), actor, c.Params("jobId"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.AppliedCheckResponse{JobID: c.Params("jobId"), Applied: applied})
}

// Resume handles GET /applications/:id/resume.
func (h *ApplicationsHandler) Resume(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	key, err := h.pipeline.ResumeFor(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"resume_key": key})
}
