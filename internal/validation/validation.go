// Package validation checks request payloads before they reach the service
// layer. Structural rules (required, email, lengths) run through
// go-playground/validator; the password policy is checked rule by rule so
// every violated rule is reported, not just the first.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const (
	passwordMinLen   = 8
	passwordMaxLen   = 20
	passwordSpecials = "!@#$%^&*"
)

// Struct validates tagged struct fields and returns one message per failure
func Struct(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s should not be empty.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

// Password checks the sign-up password policy and returns every violated
// rule: 8-20 characters, at least one lowercase letter, one uppercase
// letter, one digit, and one special character.
func Password(password string) []string {
	var messages []string

	if len(password) < passwordMinLen {
		messages = append(messages, fmt.Sprintf("Password must be at least %d characters long.", passwordMinLen))
	}
	if len(password) > passwordMaxLen {
		messages = append(messages, fmt.Sprintf("Password must be at most %d characters long.", passwordMaxLen))
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	if !hasLower {
		messages = append(messages, "Password must contain at least one lowercase letter.")
	}
	if !hasUpper {
		messages = append(messages, "Password must contain at least one uppercase letter.")
	}
	if !hasDigit {
		messages = append(messages, "Password must contain at least one digit.")
	}
	if !hasSpecial {
		messages = append(messages, fmt.Sprintf("Password must contain at least one special character (%s).", passwordSpecials))
	}

	return messages
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
