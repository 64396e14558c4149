package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-registration-service/cmd/api/infrastructure"
	"user-registration-service/internal/adapter/db/postgres"
	ginhandler "user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/adapter/mail"
	s3store "user-registration-service/internal/adapter/storage/s3"
	"user-registration-service/internal/config"
	"user-registration-service/internal/usecase/auth"
	"user-registration-service/internal/usecase/profile"
	"user-registration-service/pkg/token"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	TokenIssuer *token.Issuer
	AuthUC      auth.Usecase
	ProfileUC   profile.Usecase
	AuthHandler *ginhandler.AuthHandler
	UserHandler *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s3Client, err := infrastructure.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	repo := postgres.NewUserRepoPG(db, l)
	photos := s3store.NewPhotoStore(s3Client, cfg.S3.Bucket, l)
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, l)
	issuer := token.NewIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.ValidityHours)*time.Hour)

	authUC := auth.New(repo, photos, mailer, issuer, l)
	profileUC := profile.New(repo, photos, l)

	authHandler := ginhandler.NewAuthHandler(authUC, cfg.App.UploadDir, l)
	userHandler := ginhandler.NewUserHandler(profileUC, cfg.App.UploadDir, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		TokenIssuer: issuer,
		AuthUC:      authUC,
		ProfileUC:   profileUC,
		AuthHandler: authHandler,
		UserHandler: userHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
