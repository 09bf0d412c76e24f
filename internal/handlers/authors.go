package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"gorm.io/gorm"
)

// AuthorHandler handles author routes
type AuthorHandler struct {
	DB *gorm.DB
}

type authorEntry struct {
	Author string `json:"author"`
}

// ListAuthors handles GET /authors
// @Summary List the distinct authors across all quotes
// @Tags Authors
// @Produce json
// @Success 200 {array} authorEntry
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /authors [get]
func (h *AuthorHandler) ListAuthors(c *fiber.Ctx) error {
	authors, err := services.ListAuthors(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "listAuthors")
	}

	entries := make([]authorEntry, 0, len(authors))
	for _, a := range authors {
		entries = append(entries, authorEntry{Author: a})
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}
