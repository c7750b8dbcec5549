package main

import (
	"alcyxob/coach-dashboard/internal/api"
	"alcyxob/coach-dashboard/internal/config"
	"alcyxob/coach-dashboard/internal/editor"
	"alcyxob/coach-dashboard/internal/repository/mongo"
	"alcyxob/coach-dashboard/internal/service"
	"alcyxob/coach-dashboard/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Coach Dashboard API
// @version 1.0
// @description Plan editor backend: training, tracker and nutrition plans, the trainer's library and media URLs.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	log.Println("Starting Coach Dashboard Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	storageCtx, cancelStorage := context.WithTimeout(context.Background(), 10*time.Second)
	fileStorage, err := storage.NewS3Storage(storageCtx, cfg.S3)
	cancelStorage()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	planRepo := mongo.NewMongoPlanRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	planService := service.NewPlanService(planRepo, workoutLogRepo, editor.Options{
		ResetTrackingOnTransfer: cfg.Editor.ResetTrackingOnTransfer,
	}, cfg.Editor.MaxBatch)
	libraryService := service.NewLibraryService(templateRepo, fileStorage)
	mediaService := service.NewMediaService(fileStorage, cfg.Media.URLExpiry)

	// --- Initialize Gin Engine ---
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, planService, libraryService, mediaService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
