package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/domain"
)

// RequireKind ensures the principal is one of the allowed user kinds.
func RequireKind(allowed ...domain.UserKind) fiber.Handler {
	allowedSet := make(map[domain.UserKind]struct{}, len(allowed))
	for _, kind := range allowed {
		allowedSet[kind] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if _, exists := allowedSet[principal.Kind]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAccessLevel ensures an administrator has at least min access.
func RequireAccessLevel(min int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Kind != domain.UserKindAdministrator || principal.User.Administrator == nil {
			return fiber.NewError(http.StatusForbidden, "administrator required")
		}
		if principal.User.Administrator.AccessLevel < min {
			return fiber.NewError(http.StatusForbidden, "insufficient access level")
		}
		return c.Next()
	}
}
