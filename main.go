package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"

	"teamforge/config"
	"teamforge/middleware"
	"teamforge/realtime"
	"teamforge/routes"
	"teamforge/storage"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize error reporting
	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			log.Printf("Sentry initialization failed: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize blob storage
	blob, err := storage.NewMinioStore(config.AppConfig.Blob)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}
	if err := blob.EnsureBucket(context.Background()); err != nil {
		log.Printf("Could not ensure blob bucket: %v", err)
	}

	// Realtime fan-out for chat and notification streams
	hub := realtime.NewHub()

	// Create Fiber app
	app := fiber.New()
	app.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(app, config.DB, hub, blob)

	// Start server
	log.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
