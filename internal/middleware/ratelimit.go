package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/config"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RateLimit gates anonymous access to the quote listing. Authenticated
// callers bypass the quota entirely; callers presenting a broken token are
// rejected outright rather than treated as anonymous. Anonymous callers are
// keyed by their request IP and spend from a persisted per-identifier quota.
func RateLimit(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := BearerToken(c); token != "" {
			if _, err := services.VerifyToken(cfg, token); err != nil {
				return &types.CustomError{
					Code:    fiber.StatusBadRequest,
					Message: "Token not valid",
					Type:    "ratelimit.token",
				}
			}
			return c.Next()
		}

		// Anonymous callers may only list quotes.
		if c.Method() != fiber.MethodGet {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "You need to be logged in to access this route.",
				Type:    "ratelimit.anonymous",
			}
		}

		anon, err := services.GetOrCreateAnonymousUser(db, c.IP(), cfg.AnonRateLimit)
		if err != nil {
			return quotaError(c, err)
		}

		anon, err = services.ResetStaleQuota(db, anon, cfg.AnonRateLimit, cfg.AnonResetAfter)
		if err != nil {
			return quotaError(c, err)
		}

		ok, err := services.ConsumeQuota(db, anon.ID)
		if err != nil {
			return quotaError(c, err)
		}
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusTooManyRequests,
				Message: "Too many requests",
				Type:    "ratelimit.quota",
			}
		}

		return c.Next()
	}
}

// quotaError blocks the request; quota bookkeeping failures never let a
// request through.
func quotaError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("ip", c.IP()).Msg("rate-limit gate failed")
	return &types.CustomError{
		Code:    fiber.StatusInternalServerError,
		Message: "Internal server error",
		Type:    "ratelimit",
	}
}
