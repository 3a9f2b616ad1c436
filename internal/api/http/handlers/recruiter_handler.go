package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/api/dto"
	"github.com/spec-kit/staffing-board/internal/service"
)

// RecruiterHandler exposes the applicant pipeline to staff.
type RecruiterHandler struct {
	pipeline *service.PipelineService
}

// NewRecruiterHandler constructs handler.
func NewRecruiterHandler(pipeline *service.PipelineService) *RecruiterHandler {
	return &RecruiterHandler{pipeline: pipeline}
}

// Applications handles GET /recruiter/applications.
func (h *RecruiterHandler) Applications(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	grouped, err := h.pipeline.GetGrouped(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, groupedResponse(grouped))
}

// UpdateStatus handles PATCH /recruiter/applications/:id/status.
func (h *RecruiterHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.pipeline.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, applicationResponse(app))
}

// AddNote handles POST /recruiter/applications/:id/notes.
func (h *RecruiterHandler) AddNote(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.NoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	note, err := h.pipeline.AddNote(c.UserContext(), actor, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, noteResponse(note))
}

// History handles GET /recruiter/applications/:id/history.
func (h *RecruiterHandler) History(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	changes, err := h.pipeline.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, statusChangeResponses(changes))
}

// JobApplicants handles GET /recruiter/jobs/:jobId/applicants.
func (h *RecruiterHandler) JobApplicants(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	apps, err := h.pipeline.GetForJob(c.UserContext(), actor, c.Params("jobId"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, applicationResponses(apps))
}

// ExportApplicants handles GET /recruiter/jobs/:jobId/applicants.csv.
func (h *RecruiterHandler) ExportApplicants(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	jobID := c.Params("jobId")
	var buf bytes.Buffer
	if err := h.pipeline.ExportCSV(c.UserContext(), actor, jobID, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="applicants-%s.csv"`, jobID))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}
