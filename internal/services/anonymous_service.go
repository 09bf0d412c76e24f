package services

import (
	"errors"
	"time"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GetOrCreateAnonymousUser returns the quota record for a client identifier,
// creating it with the seed quota on first sight. Creation races with
// another request for the same identifier fall back to reading the row the
// winner inserted.
func GetOrCreateAnonymousUser(db *gorm.DB, address string, seed int) (*models.AnonymousUser, error) {
	var anon models.AnonymousUser
	err := db.Where("unique_address = ?", address).First(&anon).Error
	if err == nil {
		return &anon, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Str("address", address).Msg("anonymous quota lookup failed")
		return nil, err
	}

	anon = models.AnonymousUser{UniqueAddress: address, RateLimit: seed}
	if err := db.Create(&anon).Error; err != nil {
		// Unique index collision: another request created the row first.
		var existing models.AnonymousUser
		if lookupErr := db.Where("unique_address = ?", address).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		log.Error().Err(err).Str("address", address).Msg("anonymous quota create failed")
		return nil, err
	}
	return &anon, nil
}

// ResetStaleQuota reseeds an exhausted quota whose last update is older than
// the reset window. Returns the refreshed record.
func ResetStaleQuota(db *gorm.DB, anon *models.AnonymousUser, seed int, window time.Duration) (*models.AnonymousUser, error) {
	if anon.RateLimit > 0 || time.Since(anon.UpdatedAt) <= window {
		return anon, nil
	}

	err := db.Model(&models.AnonymousUser{}).Where("id = ?", anon.ID).
		Update("rate_limit", seed).Error
	if err != nil {
		log.Error().Err(err).Str("id", anon.ID).Msg("anonymous quota reset failed")
		return nil, err
	}

	var refreshed models.AnonymousUser
	if err := db.Where("id = ?", anon.ID).First(&refreshed).Error; err != nil {
		log.Error().Err(err).Str("id", anon.ID).Msg("anonymous quota reload failed")
		return nil, err
	}
	return &refreshed, nil
}

// ConsumeQuota spends one unit of the record's quota with a single
// conditional UPDATE, so concurrent requests from the same identifier cannot
// race past the check. Returns false when the quota is already exhausted;
// nothing is persisted in that case.
func ConsumeQuota(db *gorm.DB, id string) (bool, error) {
	result := db.Model(&models.AnonymousUser{}).
		Where("id = ? AND rate_limit > 0", id).
		Update("rate_limit", gorm.Expr("rate_limit - 1"))
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", id).Msg("anonymous quota decrement failed")
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
