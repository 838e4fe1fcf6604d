package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

// RequirePermission ensures the principal's role grants perm.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Identity.Role.Grants(perm) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
