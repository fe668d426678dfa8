package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/vodmarks/vodmarks/pkg/vodmarks/bookmarks"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/database"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/folders"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/medialog"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/merged"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/metadata"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/models"
	"github.com/vodmarks/vodmarks/pkg/vodmarks/subtitles"
)

// @title Vodmarks API
// @version 1.0
// @description A folder-tree organizer for saved media references, with cross-branch duplicate-name merging and a personal media log.

// @host localhost:8080
// @BasePath /api

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("VODMARKS_DB_PATH")
	if dbPath == "" {
		dbPath = "vodmarks.db"
	}

	// Connect to database
	if err := database.Connect(dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Ensure the root folder exists (must run before any tree operation)
	if err := ensureRootExists(); err != nil {
		log.Fatalf("Failed to ensure root folder exists: %v", err)
	}

	// Subtitle file storage
	subtitleDir := os.Getenv("VODMARKS_SUBTITLE_DIR")
	if subtitleDir == "" {
		subtitleDir = "srt_uploads"
	}
	subtitleStore, err := subtitles.NewStore(subtitleDir)
	if err != nil {
		log.Fatalf("Failed to initialize subtitle storage: %v", err)
	}

	// Video metadata fetcher
	oembedURL := os.Getenv("VODMARKS_OEMBED_URL")
	if oembedURL == "" {
		oembedURL = "https://www.youtube.com/oembed"
	}
	fetcher := metadata.NewOEmbedFetcher(oembedURL)

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "vodmarks",
			})
		})

		foldersHandler := folders.NewHandler(database.GetDB(), subtitleStore)
		foldersHandler.RegisterRoutes(api)

		bookmarksHandler := bookmarks.NewHandler(database.GetDB(), fetcher, subtitleStore)
		bookmarksHandler.RegisterRoutes(api)
		bookmarksHandler.RegisterSubtitleRoutes(api)

		mergedHandler := merged.NewHandler(database.GetDB())
		mergedHandler.RegisterRoutes(api)

		medialogHandler := medialog.NewHandler(database.GetDB())
		medialogHandler.RegisterRoutes(api)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Vodmarks server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureRootExists creates the root folder if no parentless folder exists.
// The root is created exactly once here and is never renamed or deleted.
func ensureRootExists() error {
	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Folder{}).Where("parent_id IS NULL").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Root already exists
	}

	root := models.Folder{Name: "Root"}
	if err := db.Create(&root).Error; err != nil {
		return err
	}

	log.Printf("Created root folder (ID: %d)", root.ID)
	return nil
}
