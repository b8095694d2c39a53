package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vidverse/vidverse_backend/cmd/docs"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/middleware"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	r.GET("/", getHome)

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(services.Token, services.User))

	registerUserRoutes(v1, cfg, services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
