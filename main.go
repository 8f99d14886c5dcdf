package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/mattedmundson/crowd-hub/database"
	"github.com/mattedmundson/crowd-hub/handlers"
	"github.com/mattedmundson/crowd-hub/handlers/admin"
	"github.com/mattedmundson/crowd-hub/middleware"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire handlers to the shared connection
	handlers.InitHandlers()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Get("/me", middleware.AuthMiddleware, handlers.GetCurrentUser)

	// Challenge routes
	challengeGroup := api.Group("/challenges")
	challengeGroup.Use(middleware.AuthMiddleware)
	challengeGroup.Get("/", handlers.GetChallenges)
	challengeGroup.Get("/current", handlers.GetCurrentChallenge)
	challengeGroup.Get("/active", handlers.GetActiveChallenges)
	challengeGroup.Post("/start", handlers.StartChallenge)
	challengeGroup.Get("/:id", handlers.GetChallenge)
	challengeGroup.Get("/:id/today", handlers.GetTodaysContent)

	// Entry routes
	entryGroup := api.Group("/entries")
	entryGroup.Use(middleware.AuthMiddleware)
	entryGroup.Post("/", handlers.SaveEntry)
	entryGroup.Post("/offline", handlers.MarkOfflineComplete)
	entryGroup.Post("/review-notes", handlers.AddReviewNotes)
	entryGroup.Get("/:id/day/:day", handlers.GetEntry)
	entryGroup.Get("/:id/week/:weekEnd", handlers.GetWeeklyReview)

	// Progress routes
	progressGroup := api.Group("/progress")
	progressGroup.Use(middleware.AuthMiddleware)
	progressGroup.Get("/:id", handlers.GetProgressStats)
	progressGroup.Get("/:id/calendar", handlers.GetCalendarData)
	progressGroup.Get("/:id/achievements", handlers.GetAchievements)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuthMiddleware)
	adminGroup.Get("/challenges", admin.GetChallenges)
	adminGroup.Post("/challenges", admin.CreateChallenge)
	adminGroup.Put("/challenges/:id", admin.UpdateChallenge)
	adminGroup.Delete("/challenges/:id", admin.DeleteChallenge)
	adminGroup.Get("/challenges/:id/prompts", admin.GetPrompts)
	adminGroup.Post("/challenges/:id/prompts", admin.CreatePrompt)
	adminGroup.Put("/prompts/:id", admin.UpdatePrompt)
	adminGroup.Delete("/prompts/:id", admin.DeletePrompt)
	adminGroup.Get("/users", admin.GetUsers)
	adminGroup.Get("/users/:id", admin.GetUser)
	adminGroup.Put("/users/:id", admin.UpdateUser)
	adminGroup.Delete("/users/:id", admin.DeleteUser)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
