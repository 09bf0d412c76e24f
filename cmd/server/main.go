package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/quotesmgmt/quotes-api/internal/config"
	"github.com/quotesmgmt/quotes-api/internal/database"
	"github.com/quotesmgmt/quotes-api/internal/handlers"
	"github.com/quotesmgmt/quotes-api/internal/middleware"
	"github.com/quotesmgmt/quotes-api/internal/services"
	"github.com/quotesmgmt/quotes-api/internal/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/quotesmgmt/quotes-api/docs/api" // Swagger docs
)

// @title Quotes Management API
// @version 1.0.0
// @description Manage quotes created by users: auth, reactions, rate-limited anonymous listing
// @host localhost:4000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Str("service", "quotes-api").Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("quotes_api")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Version middleware
	app.Use(middleware.VersionMiddleware())

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	quoteHandler := &handlers.QuoteHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db}
	authorHandler := &handlers.AuthorHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	authRequired := middleware.AuthRequired(db, cfg)

	// Health probe
	app.Get("/health", healthHandler.Health)

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/sign-in", authHandler.SignIn)
	auth.Post("/sign-up", authHandler.SignUp)

	// Quote routes; listing is open to anonymous callers behind the
	// rate-limit gate, everything else needs a token
	quotes := app.Group("/quotes")
	quotes.Get("/", middleware.RateLimit(db, cfg), quoteHandler.ListQuotes)
	quotes.Get("/:id/like/users", authRequired, quoteHandler.LikedUsers)
	quotes.Get("/:id/dislike/users", authRequired, quoteHandler.DislikedUsers)
	quotes.Get("/:id", authRequired, quoteHandler.GetQuote)
	quotes.Post("/", authRequired, quoteHandler.CreateQuote)
	quotes.Patch("/:id/like/up", authRequired, quoteHandler.LikeUp)
	quotes.Patch("/:id/like/down", authRequired, quoteHandler.LikeDown)
	quotes.Patch("/:id/dislike/up", authRequired, quoteHandler.DislikeUp)
	quotes.Patch("/:id/dislike/down", authRequired, quoteHandler.DislikeDown)
	quotes.Patch("/:id", authRequired, quoteHandler.UpdateQuote)
	quotes.Delete("/:id", authRequired, quoteHandler.DeleteQuote)

	// Author routes
	app.Get("/authors", authRequired, authorHandler.ListAuthors)

	// User routes
	users := app.Group("/users", authRequired)
	users.Get("/:id/quotes", userHandler.UserQuotes)
	users.Get("/:id/favourite-quotes", userHandler.FavouriteQuotes)
	users.Get("/:id/unfavourite-quotes", userHandler.UnfavouriteQuotes)
	users.Get("/", userHandler.GetCurrentUser)
	users.Patch("/", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Background reaction-count reconciliation
	jobCtx, stopJobs := context.WithCancel(context.Background())
	reconciler := services.NewReconciler(db, cfg.ReconcileInterval)
	go reconciler.Start(jobCtx)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("gracefully shutting down")
		stopJobs()
		_ = app.Shutdown()
	}()

	// Start server
	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}
