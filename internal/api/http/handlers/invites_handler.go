package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/api/dto"
	"github.com/spec-kit/staffing-board/internal/service"
)

// InvitesHandler exposes the recruiter invitation ledger.
type InvitesHandler struct {
	invitations *service.InvitationService
	now         func() time.Time
}

// NewInvitesHandler constructs handler.
func NewInvitesHandler(invitations *service.InvitationService) *InvitesHandler {
	return &InvitesHandler{invitations: invitations, now: time.Now}
}

// Verify handles GET /invites/verify/:token without consuming the token.
func (h *InvitesHandler) Verify(c *fiber.Ctx) error {
	email, err := h.invitations.Verify(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.VerifyInviteResponse{Valid: true, Email: email})
}

// Create handles POST /invites.
func (h *InvitesHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.InviteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	issued, err := h.invitations.Issue(c.UserContext(), actor, req.Email)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, issuedInvitationResponse(issued, h.now()))
}

// List handles GET /invites.
func (h *InvitesHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	invitations, err := h.invitations.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	now := h.now()
	out := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		out = append(out, invitationResponse(&invitations[i], now))
	}
	return data(c, http.StatusOK, out)
}

// ListRecruiters handles GET /invites/recruiters.
func (h *InvitesHandler) ListRecruiters(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	users, err := h.invitations.ListRecruiters(c.UserContext(), actor)
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return data(c, http.StatusOK, out)
}

// Resend handles POST /invites/:id/resend.
func (h *InvitesHandler) Resend(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	issued, err := h.invitations.Resend(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, issuedInvitationResponse(issued, h.now()))
}

// Revoke handles POST /invites/:id/revoke.
func (h *InvitesHandler) Revoke(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.invitations.Revoke(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return data(c, http.StatusOK, fiber.Map{"status": "revoked"})
}
