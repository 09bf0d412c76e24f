package validation_test

import (
	"strings"
	"testing"

	"github.com/quotesmgmt/quotes-api/internal/validation"
)

// TestPasswordPolicyReportsEveryViolation tests that a weak password lists
// all rules it breaks, not just the first
func TestPasswordPolicyReportsEveryViolation(t *testing.T) {
	messages := validation.Password("abc")

	if len(messages) != 4 {
		t.Fatalf("Expected 4 violations, got %d: %v", len(messages), messages)
	}

	wantFragments := []string{
		"at least 8 characters",
		"one uppercase letter",
		"one digit",
		"one special character",
	}
	for _, frag := range wantFragments {
		found := false
		for _, m := range messages {
			if strings.Contains(m, frag) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a message containing %q, got %v", frag, messages)
		}
	}
}

// TestPasswordPolicyAccepts tests that a conforming password passes
func TestPasswordPolicyAccepts(t *testing.T) {
	if messages := validation.Password("Sup3rSecret!"); len(messages) != 0 {
		t.Errorf("Expected no violations, got %v", messages)
	}
}

// TestPasswordPolicyLength tests both length bounds
func TestPasswordPolicyLength(t *testing.T) {
	tooLong := validation.Password("Aa1!" + strings.Repeat("x", 20))
	if len(tooLong) != 1 || !strings.Contains(tooLong[0], "at most 20 characters") {
		t.Errorf("Expected a single max-length violation, got %v", tooLong)
	}

	tooShort := validation.Password("Aa1!")
	if len(tooShort) != 1 || !strings.Contains(tooShort[0], "at least 8 characters") {
		t.Errorf("Expected a single min-length violation, got %v", tooShort)
	}
}

// TestPasswordPolicySpecials tests that only the documented special
// characters satisfy the rule
func TestPasswordPolicySpecials(t *testing.T) {
	if messages := validation.Password("Passw0rd-"); len(messages) != 1 {
		t.Errorf("Expected special-character violation for '-', got %v", messages)
	}
	if messages := validation.Password("Passw0rd#"); len(messages) != 0 {
		t.Errorf("Expected '#' to satisfy the special rule, got %v", messages)
	}
}

// TestStructMessages tests field-level messages from tagged structs
func TestStructMessages(t *testing.T) {
	type signUp struct {
		FirstName string `validate:"required"`
		Email     string `validate:"required,email"`
		Quote     string `validate:"omitempty,min=4"`
	}

	messages := validation.Struct(signUp{Email: "not-an-email", Quote: "ab"})
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d: %v", len(messages), messages)
	}

	joined := strings.Join(messages, " | ")
	for _, frag := range []string{
		"firstName should not be empty.",
		"email must be a valid email address.",
		"quote must be at least 4 characters long.",
	} {
		if !strings.Contains(joined, frag) {
			t.Errorf("Expected %q in %q", frag, joined)
		}
	}

	if messages := validation.Struct(signUp{FirstName: "Ada", Email: "ada@example.com"}); messages != nil {
		t.Errorf("Expected no messages for a valid struct, got %v", messages)
	}
}
