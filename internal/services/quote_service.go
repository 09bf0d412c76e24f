package services

import (
	"errors"
	"strings"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateQuoteInput carries POST /quotes data
type CreateQuoteInput struct {
	Quote  string `json:"quote" validate:"required,min=4"`
	Author string `json:"author" validate:"required,min=2"`
	Tags   string `json:"tags"` // semicolon-separated values
}

// UpdateQuoteInput carries PATCH /quotes/:id data. Counters are not
// updatable through the API; they belong to the reconciliation job.
type UpdateQuoteInput struct {
	Quote  string `json:"quote" validate:"omitempty,min=4"`
	Author string `json:"author" validate:"omitempty,min=2"`
	Tags   string `json:"tags"`
}

// QuoteFilter holds the optional GET /quotes query filters
type QuoteFilter struct {
	Quote  string
	Author string
	Tags   string // semicolon-separated values
}

// CreateQuote persists a new quote owned by userID
func CreateQuote(db *gorm.DB, userID string, in CreateQuoteInput) (*models.Quote, error) {
	quote := models.Quote{
		Quote:  in.Quote,
		Author: in.Author,
		Tags:   in.Tags,
		UserID: userID,
	}
	if err := db.Create(&quote).Error; err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("CreateQuote: insert failed")
		return nil, err
	}
	return GetQuote(db, quote.ID)
}

// GetQuote returns one quote by id with its owner preloaded
func GetQuote(db *gorm.DB, id string) (*models.Quote, error) {
	var quote models.Quote
	err := db.Preload("User", models.ActiveUsers).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("GetQuote: lookup failed")
		return nil, err
	}
	return &quote, nil
}

// ListQuotes returns quotes matching the filter. Without filters the list is
// ordered by author; with filters, newest first. Matching is
// case-insensitive substring, tags match any of the given values.
func ListQuotes(db *gorm.DB, filter QuoteFilter) ([]models.Quote, error) {
	query := db.Model(&models.Quote{}).Preload("User", models.ActiveUsers)

	filtered := filter.Quote != "" || filter.Author != "" || filter.Tags != ""
	if !filtered {
		query = query.Order("author ASC")
	} else {
		query = query.Order("created_at DESC")

		if filter.Quote != "" {
			query = query.Where("LOWER(quote) LIKE ?", "%"+strings.ToLower(filter.Quote)+"%")
		}
		if filter.Author != "" {
			query = query.Where("LOWER(author) LIKE ?", "%"+strings.ToLower(filter.Author)+"%")
		}
		if filter.Tags != "" {
			var conds []string
			var args []interface{}
			for _, tag := range strings.Split(filter.Tags, ";") {
				tag = strings.TrimSpace(tag)
				if tag == "" {
					continue
				}
				conds = append(conds, "LOWER(tags) LIKE ?")
				args = append(args, "%"+strings.ToLower(tag)+"%")
			}
			if len(conds) > 0 {
				query = query.Where(strings.Join(conds, " OR "), args...)
			}
		}
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		log.Error().Err(err).Msg("ListQuotes: query failed")
		return nil, err
	}
	return quotes, nil
}

// UpdateQuote applies a partial update to a quote
func UpdateQuote(db *gorm.DB, id string, in UpdateQuoteInput) (*models.Quote, error) {
	quote, err := GetQuote(db, id)
	if err != nil {
		return nil, err
	}

	if in.Quote != "" {
		quote.Quote = in.Quote
	}
	if in.Author != "" {
		quote.Author = in.Author
	}
	if in.Tags != "" {
		quote.Tags = in.Tags
	}

	if err := db.Save(quote).Error; err != nil {
		log.Error().Err(err).Str("id", id).Msg("UpdateQuote: save failed")
		return nil, err
	}
	return quote, nil
}

// DeleteQuote removes a quote and, via FK cascade, all its reaction rows.
// The reaction delete runs in the same transaction so drivers without
// enforced cascades (sqlite in tests) behave identically.
func DeleteQuote(db *gorm.DB, id string) error {
	if _, err := GetQuote(db, id); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.UserQuoteReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Quote{}).Error
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("DeleteQuote: delete failed")
		return err
	}
	return nil
}

// ListAuthors returns the distinct authors across all quotes
func ListAuthors(db *gorm.DB) ([]string, error) {
	var authors []string
	err := db.Model(&models.Quote{}).Distinct("author").Order("author ASC").Pluck("author", &authors).Error
	if err != nil {
		log.Error().Err(err).Msg("ListAuthors: query failed")
		return nil, err
	}
	return authors, nil
}

// ListUserQuotes returns the quotes added by one user, newest first
func ListUserQuotes(db *gorm.DB, userID string) ([]models.Quote, error) {
	var quotes []models.Quote
	err := db.Preload("User", models.ActiveUsers).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("ListUserQuotes: query failed")
		return nil, err
	}
	return quotes, nil
}
