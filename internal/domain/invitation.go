package domain

import "time"

// DefaultInvitationTTL is how long an invitation stays redeemable.
const DefaultInvitationTTL = 48 * time.Hour

// Invitation offers a role to an email address. The plaintext token is never
// stored; TokenHash must not be serialized.
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	InvitedBy string    `json:"invited_by"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the invitation can still be redeemed at now.
func (i *Invitation) IsPending(now time.Time) bool {
	return !i.Used && now.Before(i.ExpiresAt)
}

// PasswordReset is a single-use, hashed password reset token.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
