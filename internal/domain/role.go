package domain

// Role is the closed set of account roles.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRecruiter Role = "recruiter"
	RoleOwner     Role = "owner"
)

// ParseRole accepts only the three known role values.
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleApplicant, RoleRecruiter, RoleOwner:
		return Role(value), true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsStaff is true for recruiters and the owner.
func (r Role) IsStaff() bool {
	return r == RoleRecruiter || r == RoleOwner
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

// CanInviteRecruiter gates the invitation ledger's issuing side.
func (r Role) CanInviteRecruiter() bool {
	return r == RoleOwner
}

// Actor is the authenticated identity an operation runs on behalf of.
type Actor struct {
	ID    string
	Email string
	Role  Role
}
