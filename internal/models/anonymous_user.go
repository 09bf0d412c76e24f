package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousUser tracks the remaining unauthenticated request quota for one
// client identifier (the caller's IP address). One row per identifier,
// created lazily on the first anonymous request.
type AnonymousUser struct {
	ID            string    `gorm:"type:char(36);primaryKey" json:"id"`
	UniqueAddress string    `gorm:"uniqueIndex;size:64;not null" json:"uniqueAddress"`
	RateLimit     int       `gorm:"not null" json:"rateLimit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key
func (a *AnonymousUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for AnonymousUser
func (AnonymousUser) TableName() string {
	return "anonymous_users"
}
