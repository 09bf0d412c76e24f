package services

import (
	"context"
	"time"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// reactionCount is one row of the per-quote reaction aggregate
type reactionCount struct {
	QuoteID  string
	Likes    int
	Dislikes int
}

// ReconcileReactionCounts recomputes every quote's cached like/dislike
// counters from the reaction table. The recomputation is total, not
// incremental: quotes without any reaction rows are reset to 0/0, which
// covers the case where the last reaction on a quote was just deleted.
// Running it twice is harmless; concurrent runs converge because each writes
// values derived from the full current state.
func ReconcileReactionCounts(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var counts []reactionCount
		err := tx.Model(&models.UserQuoteReaction{}).
			Select("quote_id, "+
				"SUM(CASE WHEN liked = ? THEN 1 ELSE 0 END) AS likes, "+
				"SUM(CASE WHEN disliked = ? THEN 1 ELSE 0 END) AS dislikes",
				true, true).
			Group("quote_id").
			Scan(&counts).Error
		if err != nil {
			return err
		}

		reacted := make([]string, 0, len(counts))
		for _, c := range counts {
			result := tx.Model(&models.Quote{}).Where("id = ?", c.QuoteID).
				Updates(map[string]interface{}{"likes": c.Likes, "dislikes": c.Dislikes})
			if result.Error != nil {
				return result.Error
			}
			reacted = append(reacted, c.QuoteID)
		}

		// Quotes absent from the aggregate have no reactions left.
		zero := tx.Model(&models.Quote{})
		if len(reacted) > 0 {
			zero = zero.Where("id NOT IN ?", reacted)
		} else {
			zero = zero.Where("1 = 1")
		}
		return zero.Updates(map[string]interface{}{"likes": 0, "dislikes": 0}).Error
	})
}

// Reconciler periodically reconciles quote reaction counters
type Reconciler struct {
	DB       *gorm.DB
	Interval time.Duration
}

// NewReconciler creates a Reconciler with the given recomputation interval
func NewReconciler(db *gorm.DB, interval time.Duration) *Reconciler {
	return &Reconciler{DB: db, Interval: interval}
}

// Start runs the reconciliation loop until ctx is cancelled. A failed pass
// is logged and retried from scratch on the next tick.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.Interval).Msg("reaction reconciler started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reaction reconciler stopped")
			return
		case <-ticker.C:
			if err := ReconcileReactionCounts(r.DB); err != nil {
				log.Error().Err(err).Msg("reaction reconciliation pass failed")
			}
		}
	}
}
