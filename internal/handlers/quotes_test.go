package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/quotesmgmt/quotes-api/internal/handlers"
	"github.com/quotesmgmt/quotes-api/internal/middleware"
	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"gorm.io/gorm"
)

// quotesApp wires the quote routes behind a stub that injects the given
// user id the way the auth middleware would
func quotesApp(db *gorm.DB, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalsUserID, userID)
		return c.Next()
	})

	handler := &handlers.QuoteHandler{DB: db}
	app.Get("/quotes", handler.ListQuotes)
	app.Get("/quotes/:id/like/users", handler.LikedUsers)
	app.Get("/quotes/:id/dislike/users", handler.DislikedUsers)
	app.Get("/quotes/:id", handler.GetQuote)
	app.Post("/quotes", handler.CreateQuote)
	app.Patch("/quotes/:id/like/up", handler.LikeUp)
	app.Patch("/quotes/:id/like/down", handler.LikeDown)
	app.Patch("/quotes/:id/dislike/up", handler.DislikeUp)
	app.Patch("/quotes/:id/dislike/down", handler.DislikeDown)
	app.Patch("/quotes/:id", handler.UpdateQuote)
	app.Delete("/quotes/:id", handler.DeleteQuote)
	return app
}

func signUpUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
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

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

// TestQuoteCRUD tests create, read, update and delete through the handlers
func TestQuoteCRUD(t *testing.T) {
	db := setupTestDB(t)
	user := signUpUser(t, db, "writer@example.com")
	app := quotesApp(db, user.ID)

	// Create
	status, body := doJSON(t, app, "POST", "/quotes", map[string]string{
		"quote":  "Talk is cheap. Show me the code.",
		"author": "Linus Torvalds",
		"tags":   "programming",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", status, body)
	}
	var created models.Quote
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("Failed to decode created quote: %v", err)
	}
	if created.User == nil || created.User.ID != user.ID {
		t.Error("Expected quote owned by the authenticated user")
	}

	// Read
	status, body = doJSON(t, app, "GET", "/quotes/"+created.ID, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var got models.Quote
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Failed to decode quote: %v", err)
	}
	if got.User == nil || got.User.Email != user.Email {
		t.Error("Expected owner preloaded on lookup")
	}

	// Update
	status, body = doJSON(t, app, "PATCH", "/quotes/"+created.ID, map[string]string{
		"author": "L. Torvalds",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}
	var updated models.Quote
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("Failed to decode updated quote: %v", err)
	}
	if updated.Author != "L. Torvalds" || updated.Quote != created.Quote {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	// Delete
	status, _ = doJSON(t, app, "DELETE", "/quotes/"+created.ID, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	status, _ = doJSON(t, app, "GET", "/quotes/"+created.ID, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", status)
	}
}

// TestCreateQuoteValidation tests the minimum length rules
func TestCreateQuoteValidation(t *testing.T) {
	db := setupTestDB(t)
	user := signUpUser(t, db, "writer@example.com")
	app := quotesApp(db, user.ID)

	status, body := doJSON(t, app, "POST", "/quotes", map[string]string{
		"quote":  "abc",
		"author": "X",
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", status, body)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	messages, ok := result["message"].([]interface{})
	if !ok || len(messages) != 2 {
		t.Errorf("Expected 2 validation messages, got %v", result["message"])
	}
}

// TestListQuotesWithFilters tests the query parameter plumbing
func TestListQuotesWithFilters(t *testing.T) {
	db := setupTestDB(t)
	user := signUpUser(t, db, "writer@example.com")
	app := quotesApp(db, user.ID)

	for _, in := range []map[string]string{
		{"quote": "Stay hungry, stay foolish.", "author": "Steve Jobs", "tags": "life"},
		{"quote": "Talk is cheap. Show me the code.", "author": "Linus Torvalds", "tags": "programming"},
	} {
		if status, body := doJSON(t, app, "POST", "/quotes", in); status != fiber.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", status, body)
		}
	}

	status, body := doJSON(t, app, "GET", "/quotes?author=jobs", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var quotes []models.Quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		t.Fatalf("Failed to decode quotes: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Author != "Steve Jobs" {
		t.Errorf("Expected one Jobs quote, got %v", quotes)
	}
}

// TestReactionEndpoints tests the like/dislike routes end to end
func TestReactionEndpoints(t *testing.T) {
	db := setupTestDB(t)
	writer := signUpUser(t, db, "writer@example.com")
	reader := signUpUser(t, db, "reader@example.com")

	quote, err := services.CreateQuote(db, writer.ID, services.CreateQuoteInput{
		Quote:  "The obstacle is the way.",
		Author: "Marcus Aurelius",
	})
	if err != nil {
		t.Fatalf("CreateQuote failed: %v", err)
	}

	app := quotesApp(db, reader.ID)

	// Like
	status, body := doJSON(t, app, "PATCH", "/quotes/"+quote.ID+"/like/up", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", status, body)
	}
	var liked models.Quote
	if err := json.Unmarshal(body, &liked); err != nil {
		t.Fatalf("Failed to decode quote: %v", err)
	}
	if liked.Likes != 1 || liked.Dislikes != 0 {
		t.Errorf("Expected 1/0 after like, got %d/%d", liked.Likes, liked.Dislikes)
	}

	// Switch to dislike
	status, body = doJSON(t, app, "PATCH", "/quotes/"+quote.ID+"/dislike/up", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var disliked models.Quote
	if err := json.Unmarshal(body, &disliked); err != nil {
		t.Fatalf("Failed to decode quote: %v", err)
	}
	if disliked.Likes != 0 || disliked.Dislikes != 1 {
		t.Errorf("Expected 0/1 after switch, got %d/%d", disliked.Likes, disliked.Dislikes)
	}

	// Listing the dislike side carries the reader
	status, body = doJSON(t, app, "GET", "/quotes/"+quote.ID+"/dislike/users", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	var reactions []models.UserQuoteReaction
	if err := json.Unmarshal(body, &reactions); err != nil {
		t.Fatalf("Failed to decode reactions: %v", err)
	}
	if len(reactions) != 1 || reactions[0].User == nil || reactions[0].User.ID != reader.ID {
		t.Errorf("Expected one dislike by reader, got %v", reactions)
	}

	// Retract
	status, _ = doJSON(t, app, "PATCH", "/quotes/"+quote.ID+"/dislike/down", nil)
	if status != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}

	// Retracting again is a 404
	status, _ = doJSON(t, app, "PATCH", "/quotes/"+quote.ID+"/dislike/down", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 retracting a missing reaction, got %d", status)
	}
}

// TestReactionUnknownQuote tests 404 for reactions on unknown quotes
func TestReactionUnknownQuote(t *testing.T) {
	db := setupTestDB(t)
	reader := signUpUser(t, db, "reader@example.com")
	app := quotesApp(db, reader.ID)

	status, _ := doJSON(t, app, "PATCH", "/quotes/missing-id/like/up", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown quote, got %d", status)
	}
}
