package middleware

import (
	"strings"

	"nestory-backend/models"
	"nestory-backend/services"
	"nestory-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Protect validates the Bearer token and attaches the caller's identity to
// the request context as "user_id" and "user_role".
func Protect(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.NewUnauthorizedError("Not authorized, no token provided")
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return utils.NewUnauthorizedError("Not authorized, token failed")
		}

		c.Locals("user_id", claims.Subject)
		c.Locals("user_role", claims.Role)
		return c.Next()
	}
}

// AdminOnly allows only admin callers through. Must run after Protect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("user_role").(string); role != models.RoleAdmin {
			return utils.NewForbiddenError("Admin access required")
		}
		return c.Next()
	}
}

// UserID reads the authenticated caller's ID set by Protect.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
