package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ajharbinger/score-api/internal/api"
	"github.com/ajharbinger/score-api/internal/database"
	"github.com/ajharbinger/score-api/internal/logger"
	"github.com/ajharbinger/score-api/internal/middleware"
	"github.com/ajharbinger/score-api/pkg/config"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.New()

	log := logger.New(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.IsProduction(),
	})
	if envErr != nil {
		log.Debug("No .env file found")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", err)
	}

	// Run migrations
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal("Failed to run migrations", err)
		}
	}

	// Initialize database
	db, err := database.Open(cfg.DatabaseURL, database.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		PingTimeout:     10 * time.Second,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		log.Fatal("Invalid trusted proxies", err)
	}

	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.MaxRequestSize))
	r.Use(gin.Recovery())

	// Setup API routes
	if err := api.SetupRoutes(r, db, log); err != nil {
		log.Fatal("Failed to setup API routes", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", err)
	}
}
