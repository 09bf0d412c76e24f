package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/middleware"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"github.com/quotesmgmt/quotes-api/internal/validation"
	"gorm.io/gorm"
)

// QuoteHandler handles quote routes
type QuoteHandler struct {
	DB *gorm.DB
}

// ListQuotes handles GET /quotes
// @Summary List quotes
// @Description List quotes. Accessible without a token, subject to the anonymous rate limit.
// @Tags Quotes
// @Produce json
// @Param quote query string false "Substring filter on the quote text"
// @Param author query string false "Substring filter on the author"
// @Param tags query string false "Semicolon-separated tags, any match"
// @Success 200 {array} models.Quote
// @Failure 429 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /quotes [get]
func (h *QuoteHandler) ListQuotes(c *fiber.Ctx) error {
	filter := services.QuoteFilter{
		Quote:  c.Query("quote"),
		Author: c.Query("author"),
		Tags:   c.Query("tags"),
	}

	quotes, err := services.ListQuotes(h.DB, filter)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "listQuotes")
	}
	return c.Status(fiber.StatusOK).JSON(quotes)
}

// GetQuote handles GET /quotes/:id
// @Summary Get a quote by id
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *fiber.Ctx) error {
	id := c.Params("id")

	quote, err := services.GetQuote(h.DB, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Quote with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "getQuote")
	}
	return c.Status(fiber.StatusOK).JSON(quote)
}

// CreateQuote handles POST /quotes
// @Summary Add a new quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param body body services.CreateQuoteInput true "Quote to add"
// @Success 201 {object} models.Quote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes [post]
func (h *QuoteHandler) CreateQuote(c *fiber.Ctx) error {
	var in services.CreateQuoteInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "quote.validation.input")
	}
	if messages := validation.Struct(in); len(messages) > 0 {
		return utils.ValidationErrorResponse(c, messages)
	}

	quote, err := services.CreateQuote(h.DB, currentUserID(c), in)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "createQuote")
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// UpdateQuote handles PATCH /quotes/:id
// @Summary Update a quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param body body services.UpdateQuoteInput true "Fields to update"
// @Success 200 {object} models.Quote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id} [patch]
func (h *QuoteHandler) UpdateQuote(c *fiber.Ctx) error {
	id := c.Params("id")

	var in services.UpdateQuoteInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "quote.validation.input")
	}
	if messages := validation.Struct(in); len(messages) > 0 {
		return utils.ValidationErrorResponse(c, messages)
	}

	quote, err := services.UpdateQuote(h.DB, id, in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Quote with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "updateQuote")
	}
	return c.Status(fiber.StatusOK).JSON(quote)
}

// DeleteQuote handles DELETE /quotes/:id
// @Summary Delete a quote and its reactions
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeleteQuote(h.DB, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Quote with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "deleteQuote")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deleted": true})
}

// reactionMutation maps the four like/dislike operations onto one handler shape
func (h *QuoteHandler) reactionMutation(c *fiber.Ctx, op func(db *gorm.DB, userID, quoteID string) (interface{}, error), opName string) error {
	id := c.Params("id")

	quote, err := op(h.DB, currentUserID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "Quote with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, opName)
	}
	return c.Status(fiber.StatusOK).JSON(quote)
}

// LikeUp handles PATCH /quotes/:id/like/up
// @Summary Like a quote
// @Description Record a like; clears any dislike. Returns the quote with reconciled counters.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/like/up [patch]
func (h *QuoteHandler) LikeUp(c *fiber.Ctx) error {
	return h.reactionMutation(c, func(db *gorm.DB, userID, quoteID string) (interface{}, error) {
		return services.LikeUp(db, userID, quoteID)
	}, "likeUp")
}

// LikeDown handles PATCH /quotes/:id/like/down
// @Summary Retract a like
// @Description Remove the caller's reaction row. Fails with 404 when no reaction exists.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/like/down [patch]
func (h *QuoteHandler) LikeDown(c *fiber.Ctx) error {
	return h.reactionMutation(c, func(db *gorm.DB, userID, quoteID string) (interface{}, error) {
		return services.LikeDown(db, userID, quoteID)
	}, "likeDown")
}

// DislikeUp handles PATCH /quotes/:id/dislike/up
// @Summary Dislike a quote
// @Description Record a dislike; clears any like. Returns the quote with reconciled counters.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/dislike/up [patch]
func (h *QuoteHandler) DislikeUp(c *fiber.Ctx) error {
	return h.reactionMutation(c, func(db *gorm.DB, userID, quoteID string) (interface{}, error) {
		return services.DislikeUp(db, userID, quoteID)
	}, "dislikeUp")
}

// DislikeDown handles PATCH /quotes/:id/dislike/down
// @Summary Retract a dislike
// @Description Remove the caller's reaction row. Fails with 404 when no reaction exists.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/dislike/down [patch]
func (h *QuoteHandler) DislikeDown(c *fiber.Ctx) error {
	return h.reactionMutation(c, func(db *gorm.DB, userID, quoteID string) (interface{}, error) {
		return services.DislikeDown(db, userID, quoteID)
	}, "dislikeDown")
}

// LikedUsers handles GET /quotes/:id/like/users
// @Summary Users who like a quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {array} models.UserQuoteReaction
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/like/users [get]
func (h *QuoteHandler) LikedUsers(c *fiber.Ctx) error {
	reactions, err := services.LikedQuoteUsers(h.DB, c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "likedUsers")
	}
	return c.Status(fiber.StatusOK).JSON(reactions)
}

// DislikedUsers handles GET /quotes/:id/dislike/users
// @Summary Users who dislike a quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {array} models.UserQuoteReaction
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /quotes/{id}/dislike/users [get]
func (h *QuoteHandler) DislikedUsers(c *fiber.Ctx) error {
	reactions, err := services.DislikedQuoteUsers(h.DB, c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "dislikedUsers")
	}
	return c.Status(fiber.StatusOK).JSON(reactions)
}

// currentUserID returns the authenticated user id placed in locals by the
// auth middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalsUserID).(string); ok {
		return id
	}
	return ""
}
