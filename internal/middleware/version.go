package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// VersionMiddleware parses the API-Version header and stores it in context
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("API-Version", "1.0.0")

		// Support version aliases
		if version == "1.0" || version == "1" {
			version = "1.0.0"
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
