package services_test

import (
	"testing"

	"github.com/quotesmgmt/quotes-api/internal/models"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.AnonymousUser{},
		&models.Quote{},
		&models.UserQuoteReaction{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts an active user with a pre-hashed password
func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	hash, err := services.HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  hash,
		State:     models.UserStateActive,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

// createTestQuote inserts a quote owned by the given user
func createTestQuote(t *testing.T, db *gorm.DB, userID, text, author string) *models.Quote {
	quote := models.Quote{
		Quote:  text,
		Author: author,
		UserID: userID,
	}
	if err := db.Create(&quote).Error; err != nil {
		t.Fatalf("Failed to create test quote: %v", err)
	}
	return &quote
}

// TestReconcileReactionCounts tests that stored counters match the reaction rows
func TestReconcileReactionCounts(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	quote := createTestQuote(t, db, owner.ID, "Stay hungry, stay foolish.", "Steve Jobs")

	reactions := []models.UserQuoteReaction{
		{UserID: owner.ID, QuoteID: quote.ID, Liked: true},
		{UserID: alice.ID, QuoteID: quote.ID, Liked: true},
		{UserID: bob.ID, QuoteID: quote.ID, Disliked: true},
	}
	for i := range reactions {
		if err := db.Create(&reactions[i]).Error; err != nil {
			t.Fatalf("Failed to create reaction: %v", err)
		}
	}

	if err := services.ReconcileReactionCounts(db); err != nil {
		t.Fatalf("ReconcileReactionCounts failed: %v", err)
	}

	var got models.Quote
	if err := db.First(&got, "id = ?", quote.ID).Error; err != nil {
		t.Fatalf("Failed to reload quote: %v", err)
	}
	if got.Likes != 2 {
		t.Errorf("Expected 2 likes, got %d", got.Likes)
	}
	if got.Dislikes != 1 {
		t.Errorf("Expected 1 dislike, got %d", got.Dislikes)
	}
}

// TestReconcileZeroesQuotesWithoutReactions tests that quotes with no
// remaining reactions are reset instead of keeping stale counters
func TestReconcileZeroesQuotesWithoutReactions(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	quote := createTestQuote(t, db, owner.ID, "What we think, we become.", "Buddha")

	// Simulate stale counters left behind by removed reactions
	err := db.Model(&models.Quote{}).Where("id = ?", quote.ID).
		Updates(map[string]interface{}{"likes": 5, "dislikes": 3}).Error
	if err != nil {
		t.Fatalf("Failed to seed stale counters: %v", err)
	}

	if err := services.ReconcileReactionCounts(db); err != nil {
		t.Fatalf("ReconcileReactionCounts failed: %v", err)
	}

	var got models.Quote
	if err := db.First(&got, "id = ?", quote.ID).Error; err != nil {
		t.Fatalf("Failed to reload quote: %v", err)
	}
	if got.Likes != 0 || got.Dislikes != 0 {
		t.Errorf("Expected counters reset to 0/0, got %d/%d", got.Likes, got.Dislikes)
	}
}

// TestReconcileMixedQuotes tests that quotes with and without reactions are
// both handled in a single pass
func TestReconcileMixedQuotes(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	reacted := createTestQuote(t, db, owner.ID, "Less is more.", "Ludwig Mies van der Rohe")
	untouched := createTestQuote(t, db, owner.ID, "Form follows function.", "Louis Sullivan")

	reaction := models.UserQuoteReaction{UserID: owner.ID, QuoteID: reacted.ID, Disliked: true}
	if err := db.Create(&reaction).Error; err != nil {
		t.Fatalf("Failed to create reaction: %v", err)
	}
	err := db.Model(&models.Quote{}).Where("id = ?", untouched.ID).
		Update("likes", 7).Error
	if err != nil {
		t.Fatalf("Failed to seed stale counter: %v", err)
	}

	if err := services.ReconcileReactionCounts(db); err != nil {
		t.Fatalf("ReconcileReactionCounts failed: %v", err)
	}

	var first, second models.Quote
	db.First(&first, "id = ?", reacted.ID)
	db.First(&second, "id = ?", untouched.ID)

	if first.Likes != 0 || first.Dislikes != 1 {
		t.Errorf("Expected 0/1 for reacted quote, got %d/%d", first.Likes, first.Dislikes)
	}
	if second.Likes != 0 || second.Dislikes != 0 {
		t.Errorf("Expected 0/0 for untouched quote, got %d/%d", second.Likes, second.Dislikes)
	}
}
