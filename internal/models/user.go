package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserState tags a user row as visible or soft-deleted. Deleted rows are
// retained in storage and filtered out at the repository boundary.
type UserState string

const (
	UserStateActive  UserState = "active"
	UserStateDeleted UserState = "deleted"
)

// User represents a registered account
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"firstName"`
	LastName  string    `gorm:"size:255;not null" json:"lastName"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	State     UserState `gorm:"size:16;not null;default:active" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.State == "" {
		u.State = UserStateActive
	}
	return nil
}

// ActiveUsers is the visibility filter for soft-deleted accounts.
// Every repository-level user lookup goes through this scope.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", UserStateActive)
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
