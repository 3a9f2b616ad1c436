package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staffing-board/internal/domain"
	apperrors "github.com/spec-kit/staffing-board/pkg/util/errorutil"
)

// RequireAuthenticated ensures some principal is loaded.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireStaff admits recruiters and the owner.
func RequireStaff() fiber.Handler {
	return requireRole(domain.Role.IsStaff)
}

// RequireOwner admits only the owner.
func RequireOwner() fiber.Handler {
	return requireRole(domain.Role.IsOwner)
}

func requireRole(allowed func(domain.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !allowed(principal.User.Role) {
			return apperrors.NewNotAuthorized()
		}
		return c.Next()
	}
}
