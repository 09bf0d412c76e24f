package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/config"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/types"
	"gorm.io/gorm"
)

// Locals keys set by AuthRequired for downstream handlers
const (
	LocalsUserID    = "userID"
	LocalsUserEmail = "userEmail"
)

// BearerToken extracts the token from an Authorization header,
// empty string when the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired guards protected routes: it verifies the bearer token, loads
// the active user it names, and stores the identity in ctx locals. Rejections
// surface as CustomError so the app error handler renders the envelope.
func AuthRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "You need to be logged in to access this route.",
				Type:    "auth.token.missing",
			}
		}

		userID, err := services.VerifyToken(cfg, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid or expired token.",
				Type:    "auth.token.invalid",
			}
		}

		user, err := services.GetUser(db, userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return &types.CustomError{
					Code:    fiber.StatusUnauthorized,
					Message: "Invalid or expired token.",
					Type:    "auth.token.invalid",
				}
			}
			return &types.CustomError{
				Code:    fiber.StatusInternalServerError,
				Message: "Internal server error",
				Type:    "auth",
			}
		}

		c.Locals(LocalsUserID, user.ID)
		c.Locals(LocalsUserEmail, user.Email)
		return c.Next()
	}
}
