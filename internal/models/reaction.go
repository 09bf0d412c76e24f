package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserQuoteReaction records one user's sentiment toward one quote.
// At most one row exists per (user, quote); Liked and Disliked are set
// mutually exclusive by the operations that write them. These rows are the
// source of truth for the cached counters on quotes.
//
// The columns are named liked/disliked because LIKE is a reserved word in
// several of the supported SQL dialects.
type UserQuoteReaction struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);not null;index:idx_user_quote,unique" json:"-"`
	QuoteID   string    `gorm:"type:char(36);not null;index:idx_user_quote,unique" json:"-"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Quote     *Quote    `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"quote,omitempty"`
	Liked     bool      `gorm:"column:liked;not null;default:false" json:"like"`
	Disliked  bool      `gorm:"column:disliked;not null;default:false" json:"dislike"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key
func (r *UserQuoteReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for UserQuoteReaction
func (UserQuoteReaction) TableName() string {
	return "user_quote_reactions"
}
