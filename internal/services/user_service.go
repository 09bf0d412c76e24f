package services

import (
	"errors"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateUserInput carries sign-up data into CreateUser. The password is the
// already-validated plaintext; CreateUser hashes it before persisting.
type CreateUserInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// UpdateUserInput carries PATCH /users data. All fields are optional;
// a non-empty password is re-validated and re-hashed by the handler/service.
type UpdateUserInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password"`
}

// CreateUser registers a new account. Email must be unique among active
// users; returns ErrDuplicateEmail otherwise.
func CreateUser(db *gorm.DB, in CreateUserInput) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Scopes(models.ActiveUsers).
		Where("email = ?", in.Email).Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("CreateUser: email lookup failed")
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		log.Error().Err(err).Msg("CreateUser: password hashing failed")
		return nil, err
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		State:     models.UserStateActive,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("CreateUser: insert failed")
		return nil, err
	}
	return &user, nil
}

// GetUser returns an active user by id, ErrNotFound if absent or soft-deleted
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Scopes(models.ActiveUsers).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("GetUser: lookup failed")
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to an active user. A non-empty
// password must already be policy-checked by the caller; it is hashed here.
func UpdateUser(db *gorm.DB, id string, in UpdateUserInput) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			log.Error().Err(err).Msg("UpdateUser: password hashing failed")
			return nil, err
		}
		user.Password = hash
	}

	if err := db.Save(user).Error; err != nil {
		log.Error().Err(err).Str("id", id).Msg("UpdateUser: save failed")
		return nil, err
	}
	return user, nil
}

// DeleteUser soft-deletes a user: the row is kept, the state tag flips to
// deleted and every repository lookup stops seeing it.
func DeleteUser(db *gorm.DB, id string) error {
	if _, err := GetUser(db, id); err != nil {
		return err
	}

	result := db.Model(&models.User{}).Where("id = ?", id).
		Update("state", models.UserStateDeleted)
	if result.Error != nil {
		log.Error().Err(result.Error).Str("id", id).Msg("DeleteUser: update failed")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
