package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/zeus-agencias/kontrol-tiquetes/pkg/util"
)

// RequireAuthenticated ensures a caller is signed in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireElevated ensures the principal holds the elevated role. The
// comparison is case-insensitive; the lifecycle engine re-validates
// regardless, this guard only short-circuits the obvious case.
func RequireElevated(elevatedRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !strings.EqualFold(strings.TrimSpace(principal.Role), elevatedRole) {
			return apperrors.NewPermissionError("elevated role required")
		}
		return c.Next()
	}
}
