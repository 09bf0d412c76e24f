package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"github.com/quotesmgmt/quotes-api/internal/validation"
	"gorm.io/gorm"
)

// UserHandler handles user routes
type UserHandler struct {
	DB *gorm.DB
}

// GetCurrentUser handles GET /users
// @Summary Fetch the authenticated user's details
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	user, err := services.GetUser(h.DB, currentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "getCurrentUser")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UserQuotes handles GET /users/:id/quotes
// @Summary Quotes added by a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.Quote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id}/quotes [get]
func (h *UserHandler) UserQuotes(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := services.GetUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "User with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "userQuotes")
	}

	quotes, err := services.ListUserQuotes(h.DB, id)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "userQuotes")
	}
	return c.Status(fiber.StatusOK).JSON(quotes)
}

// FavouriteQuotes handles GET /users/:id/favourite-quotes
// @Summary Quotes a user likes
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.UserQuoteReaction
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id}/favourite-quotes [get]
func (h *UserHandler) FavouriteQuotes(c *fiber.Ctx) error {
	return h.userReactions(c, services.UserLikedQuotes, "favouriteQuotes")
}

// UnfavouriteQuotes handles GET /users/:id/unfavourite-quotes
// @Summary Quotes a user dislikes
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} models.UserQuoteReaction
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id}/unfavourite-quotes [get]
func (h *UserHandler) UnfavouriteQuotes(c *fiber.Ctx) error {
	return h.userReactions(c, services.UserDislikedQuotes, "unfavouriteQuotes")
}

func (h *UserHandler) userReactions(c *fiber.Ctx, list func(*gorm.DB, string) ([]models.UserQuoteReaction, error), opName string) error {
	id := c.Params("id")
	if _, err := services.GetUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "User with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, opName)
	}

	reactions, err := list(h.DB, id)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, opName)
	}
	return c.Status(fiber.StatusOK).JSON(reactions)
}

// UpdateUser handles PATCH /users
// @Summary Update the authenticated user's details
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users [patch]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var in services.UpdateUserInput
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "user.validation.input")
	}

	messages := validation.Struct(in)
	if in.Password != "" {
		messages = append(messages, validation.Password(in.Password)...)
	}
	if len(messages) > 0 {
		return utils.ValidationErrorResponse(c, messages)
	}

	user, err := services.UpdateUser(h.DB, currentUserID(c), in)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "User not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "updateUser")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteUser handles DELETE /users/:id
// @Summary Soft-delete a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeleteUser(h.DB, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, "User with ID: "+id+" not found")
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "deleteUser")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user with ID: " + id + " removed."})
}
