package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-registration-service/cmd/api/di"
	ginrouter "user-registration-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(container *di.Container, addr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(
		container.AuthHandler,
		container.UserHandler,
		container.TokenIssuer,
		ginrouter.Config{
			FrontendOrigin: container.Config.App.FrontendOrigin,
			UploadDir:      container.Config.App.UploadDir,
		},
		l,
	)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
