package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quote represents a quote with cached reaction counters.
// Likes and Dislikes are derived from the user_quote_reactions table by the
// reconciliation job; they are eventually-consistent caches, never mutated
// directly by the like/dislike endpoints.
type Quote struct {
	ID        string              `gorm:"type:char(36);primaryKey" json:"id"`
	Quote     string              `gorm:"size:1024;not null" json:"quote"`
	Author    string              `gorm:"size:255;not null" json:"author"`
	Likes     int                 `gorm:"not null;default:0" json:"likes"`
	Dislikes  int                 `gorm:"not null;default:0" json:"dislikes"`
	Tags      string              `gorm:"size:512" json:"tags"`
	UserID    string              `gorm:"type:char(36);not null;index" json:"-"`
	User      *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reactions []UserQuoteReaction `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key
func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Quote
func (Quote) TableName() string {
	return "quotes"
}
