package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/gin/middleware"
	"user-registration-service/pkg/logger"
)

// Config carries the router-level settings.
type Config struct {
	FrontendOrigin string
	UploadDir      string
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	verifier middleware.TokenVerifier,
	cfg Config,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.FrontendOrigin))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-registration-service",
		})
	})

	// Locally staged uploads, kept until the blob store accepts them
	router.Static("/uploads", cfg.UploadDir)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	users := router.Group("/users")
	users.Use(middleware.Auth(verifier, log))
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/profile/me", userHandler.GetProfile)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
