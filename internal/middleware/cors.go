package middleware

import (
	"strings"

	"unistay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORS allows the configured frontend origin plus localhost in development.
// Credentials allowed.
func CORS(frontendURL string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		// No origin (same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		allowed := strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			(frontendURL != "" && strings.EqualFold(origin, frontendURL))
		if !allowed {
			return response.Error(c, fiber.StatusForbidden, "Not allowed by CORS")
		}
		c.Set("Access-Control-Allow-Origin", origin)
		c.Set("Access-Control-Allow-Credentials", "true")
		c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
