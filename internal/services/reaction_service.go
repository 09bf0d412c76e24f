package services

import (
	"errors"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// setReaction upserts the single (user, quote) reaction row with the given
// sentiment. Liked and disliked are always written together so the pair
// stays mutually exclusive.
func setReaction(db *gorm.DB, userID, quoteID string, liked, disliked bool) error {
	var reaction models.UserQuoteReaction
	err := db.Where("user_id = ? AND quote_id = ?", userID, quoteID).First(&reaction).Error
	switch {
	case err == nil:
		reaction.Liked = liked
		reaction.Disliked = disliked
		if err := db.Save(&reaction).Error; err != nil {
			log.Error().Err(err).Str("quoteId", quoteID).Msg("setReaction: save failed")
			return err
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction = models.UserQuoteReaction{
			UserID:   userID,
			QuoteID:  quoteID,
			Liked:    liked,
			Disliked: disliked,
		}
		if err := db.Create(&reaction).Error; err != nil {
			log.Error().Err(err).Str("quoteId", quoteID).Msg("setReaction: insert failed")
			return err
		}
		return nil
	default:
		log.Error().Err(err).Str("quoteId", quoteID).Msg("setReaction: lookup failed")
		return err
	}
}

// removeReaction deletes the (user, quote) reaction row; ErrNotFound when
// the user has no recorded sentiment to retract.
func removeReaction(db *gorm.DB, userID, quoteID string) error {
	var reaction models.UserQuoteReaction
	err := db.Where("user_id = ? AND quote_id = ?", userID, quoteID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Str("quoteId", quoteID).Msg("removeReaction: lookup failed")
		return err
	}
	if err := db.Delete(&reaction).Error; err != nil {
		log.Error().Err(err).Str("quoteId", quoteID).Msg("removeReaction: delete failed")
		return err
	}
	return nil
}

// mutateAndReconcile runs a reaction mutation, reconciles the cached
// counters synchronously, and returns the refreshed quote. Every like and
// dislike operation funnels through here so the response never carries a
// stale counter.
func mutateAndReconcile(db *gorm.DB, quoteID string, mutate func() error) (*models.Quote, error) {
	if _, err := GetQuote(db, quoteID); err != nil {
		return nil, err
	}
	if err := mutate(); err != nil {
		return nil, err
	}
	if err := ReconcileReactionCounts(db); err != nil {
		return nil, err
	}
	return GetQuote(db, quoteID)
}

// LikeUp records a like for (user, quote), clearing any dislike
func LikeUp(db *gorm.DB, userID, quoteID string) (*models.Quote, error) {
	return mutateAndReconcile(db, quoteID, func() error {
		return setReaction(db, userID, quoteID, true, false)
	})
}

// DislikeUp records a dislike for (user, quote), clearing any like
func DislikeUp(db *gorm.DB, userID, quoteID string) (*models.Quote, error) {
	return mutateAndReconcile(db, quoteID, func() error {
		return setReaction(db, userID, quoteID, false, true)
	})
}

// LikeDown retracts the user's reaction on the quote
func LikeDown(db *gorm.DB, userID, quoteID string) (*models.Quote, error) {
	return mutateAndReconcile(db, quoteID, func() error {
		return removeReaction(db, userID, quoteID)
	})
}

// DislikeDown retracts the user's reaction on the quote
func DislikeDown(db *gorm.DB, userID, quoteID string) (*models.Quote, error) {
	return mutateAndReconcile(db, quoteID, func() error {
		return removeReaction(db, userID, quoteID)
	})
}

// LikedQuoteUsers returns the reaction rows of users who like the quote,
// newest first
func LikedQuoteUsers(db *gorm.DB, quoteID string) ([]models.UserQuoteReaction, error) {
	return quoteReactions(db, quoteID, "liked")
}

// DislikedQuoteUsers returns the reaction rows of users who dislike the
// quote, newest first
func DislikedQuoteUsers(db *gorm.DB, quoteID string) ([]models.UserQuoteReaction, error) {
	return quoteReactions(db, quoteID, "disliked")
}

func quoteReactions(db *gorm.DB, quoteID, column string) ([]models.UserQuoteReaction, error) {
	var reactions []models.UserQuoteReaction
	err := db.Preload("User", models.ActiveUsers).
		Where("quote_id = ? AND "+column+" = ?", quoteID, true).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		log.Error().Err(err).Str("quoteId", quoteID).Msg("quoteReactions: query failed")
		return nil, err
	}
	return reactions, nil
}

// UserLikedQuotes returns the reaction rows for quotes the user likes,
// newest first, with the quotes preloaded
func UserLikedQuotes(db *gorm.DB, userID string) ([]models.UserQuoteReaction, error) {
	return userReactions(db, userID, "liked")
}

// UserDislikedQuotes returns the reaction rows for quotes the user dislikes,
// newest first, with the quotes preloaded
func UserDislikedQuotes(db *gorm.DB, userID string) ([]models.UserQuoteReaction, error) {
	return userReactions(db, userID, "disliked")
}

func userReactions(db *gorm.DB, userID, column string) ([]models.UserQuoteReaction, error) {
	var reactions []models.UserQuoteReaction
	err := db.Preload("User", models.ActiveUsers).Preload("Quote").
		Where("user_id = ? AND "+column+" = ?", userID, true).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("userReactions: query failed")
		return nil, err
	}
	return reactions, nil
}
