package dto

import (
	"time"

	"github.com/spec-kit/staffing-board/internal/domain"
)

// InviteRequest asks for a recruiter invitation.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// InvitationResponse never includes the token or its fingerprint.
type InvitationResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	InvitedBy string      `json:"invited_by"`
	Used      bool        `json:"used"`
	Status    string      `json:"status"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

// IssuedInvitationResponse is returned once, to the issuer.
type IssuedInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Token      string             `json:"token"`
	InviteLink string             `json:"invite_link"`
}

// VerifyInviteResponse reports who a valid token was issued to.
type VerifyInviteResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}
