package middleware_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/config"
	"github.com/quotesmgmt/quotes-api/internal/middleware"
	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"gorm.io/gorm"
)

// protectedApp builds a Fiber app with AuthRequired on one route that
// echoes the identity locals
func protectedApp(db *gorm.DB, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Get("/me", middleware.AuthRequired(db, cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId": c.Locals(middleware.LocalsUserID),
			"email":  c.Locals(middleware.LocalsUserEmail),
		})
	})
	return app
}

func signUpTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user, err := services.CreateUser(db, services.CreateUserInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "Sup3rSecret!",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

// TestAuthRequired tests the happy path and the identity locals
func TestAuthRequired(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := protectedApp(db, cfg)

	user := signUpTestUser(t, db, "me@example.com")
	token, err := services.IssueToken(cfg, user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d", resp.StatusCode)
	}
}

// TestAuthRequiredRejections tests missing, malformed and orphaned tokens
func TestAuthRequiredRejections(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	app := protectedApp(db, cfg)

	// No token: rejected with the categorized error envelope
	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if body["type"] != "auth.token.missing" {
		t.Errorf("Expected type auth.token.missing, got %v", body["type"])
	}

	// Garbage token
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for garbage token, got %d", resp.StatusCode)
	}

	// Valid token for a user that was deleted afterwards
	user := signUpTestUser(t, db, "gone@example.com")
	token, err := services.IssueToken(cfg, user)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if err := services.DeleteUser(db, user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for deleted user, got %d", resp.StatusCode)
	}
}
