package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vidverse/vidverse_backend/internal/adapters/database/mongodb"
	"github.com/vidverse/vidverse_backend/internal/adapters/media/httpmedia"
	portsrepo "github.com/vidverse/vidverse_backend/internal/core/ports/repositories"
	"github.com/vidverse/vidverse_backend/internal/core/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
	"github.com/vidverse/vidverse_backend/internal/handlers"
	"github.com/vidverse/vidverse_backend/internal/middleware"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
	"github.com/vidverse/vidverse_backend/pkg/database"
)

// @title VidVerse Backend API
// @version 1.0
// @description This is a sample server for VidVerse backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	client, err := database.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.CloseMongoClient(ctx, client)

	db := client.Database(cfg.MongoDBName)

	if err := mongodb.EnsureUserIndexes(ctx, db); err != nil {
		logger.Error("Failed to ensure user indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.TempUploadDir, 0o755); err != nil {
		logger.Error("Failed to create temp upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := portsrepo.RepositoryProvider{
		UserRepo: mongodb.NewUserRepository(db),
	}

	uploader := httpmedia.NewUploader(cfg.MediaUploadURL)

	serviceContainer := services.NewServiceContainer(cfg, repos, uploader)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	registerCustomValidators(logger)

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(buildCORSConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// registerCustomValidators wires the DTO binding rules into gin's validator
// engine.
func registerCustomValidators(logger *slog.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Warn("Could not access validator engine, custom validators not registered")
		return
	}
	if err := dto.RegisterCustomValidators(v); err != nil {
		logger.Error("Failed to register custom validators", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildCORSConfig allows the configured origins, or any origin when none are
// configured. Credentials are only allowed for an explicit origin list.
func buildCORSConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
