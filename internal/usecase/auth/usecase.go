package auth

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "user-registration-service/internal/domain/user"
	apperrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/security"
)

// signedURLTTL bounds the lifetime of photo URLs returned to clients.
const signedURLTTL = 3600 * time.Second

// Repository defines the credential store operations needed by the
// authentication pipelines.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PhotoStore defines the blob store operations needed by the authentication
// pipelines.
type PhotoStore interface {
	Upload(ctx context.Context, r io.Reader, name, contentType string) (string, error)
	SignedURL(ctx context.Context, locator string, ttl time.Duration) (string, error)
}

// Notifier sends the welcome message after a successful registration.
type Notifier interface {
	SendWelcome(to, firstName string) error
}

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service implements registration and login. Registration is a sequential
// pipeline: validate, stage check, duplicate pre-check, blob upload, record
// create, welcome email, token. The staged photo is released on every exit
// path, exactly once.
type Service struct {
	repo     Repository
	photos   PhotoStore
	notifier Notifier
	tokens   TokenIssuer
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new authentication service.
func New(repo Repository, photos PhotoStore, notifier Notifier, tokens TokenIssuer, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		photos:   photos,
		notifier: notifier,
		tokens:   tokens,
		log:      log,
		validate: validator.New(),
	}
}

// formatValidationError converts validator.ValidationErrors into a structured
// per-field validation error.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]apperrors.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		var msg string
		switch e.Tag() {
		case "required":
			msg = e.Field() + " is required"
		case "email":
			msg = e.Field() + " must be a valid email"
		case "min":
			msg = e.Field() + " must be at least " + e.Param() + " characters"
		case "oneof":
			msg = e.Field() + " must be one of: " + e.Param()
		default:
			msg = e.Field() + " is invalid"
		}
		fields = append(fields, apperrors.FieldError{Field: e.Field(), Message: msg})
	}

	return apperrors.NewValidationErrors(fields)
}

// Register runs the registration pipeline for a new user.
//
// If the record create fails after the photo upload succeeded, the uploaded
// blob is left orphaned; there is no compensating delete. A failure to send
// the welcome email aborts the request even though the record and blob now
// exist.
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	// The staged photo must be released no matter which stage aborts.
	defer func() {
		if in.Photo != nil {
			if err := in.Photo.Release(); err != nil {
				s.log.Warn("failed to release staged photo", zap.Error(err))
			}
		}
	}()

	s.log.Info("registering user", zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("register validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}
	if in.Photo == nil {
		s.log.Warn("register missing photo", zap.String("email", in.Email))
		return nil, apperrors.NewValidationError("photo", "Photo is required")
	}

	// Pre-check for a friendly error; the unique index still catches races.
	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.ErrEmailExists
	}

	body, err := in.Photo.Open()
	if err != nil {
		s.log.Error("failed to open staged photo", zap.Error(err))
		return nil, apperrors.NewUploadError("failed to read uploaded photo", err)
	}
	defer body.Close()

	locator, err := s.photos.Upload(ctx, body, in.Photo.Name, in.Photo.ContentType)
	if err != nil {
		s.log.Error("photo upload failed", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
		DOB:       in.DOB,
		Gender:    domain.Gender(in.Gender),
		Hobbies:   in.Hobbies,
		Photo:     locator,
	})
	if err != nil {
		s.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	if err := s.notifier.SendWelcome(created.Email, created.FirstName); err != nil {
		s.log.Error("welcome email failed", zap.String("email", created.Email), zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		s.log.Error("failed to issue token", zap.String("id", created.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	s.log.Info("user registered", zap.String("id", created.ID))
	return &AuthResponse{Token: token, User: s.toDTO(ctx, created)}, nil
}

// Login authenticates a user by email and password. Both unknown email and
// wrong password yield the same generic unauthorized error.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("login validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to look up user for login", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		s.log.Warn("login for unknown email", zap.String("email", in.Email))
		return nil, apperrors.ErrUnauthorized
	}

	if err := security.VerifyPassword(in.Password, u.Password); err != nil {
		s.log.Warn("login password mismatch", zap.String("id", u.ID))
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.log.Error("failed to issue token", zap.String("id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	s.log.Info("user logged in", zap.String("id", u.ID))
	return &AuthResponse{Token: token, User: s.toDTO(ctx, u)}, nil
}

// toDTO strips the password hash and replaces the stored locator with a fresh
// signed URL. On signing failure the photo field is left empty rather than
// exposing the locator.
func (s *Service) toDTO(ctx context.Context, u *domain.User) User {
	photoURL, err := s.photos.SignedURL(ctx, u.Photo, signedURLTTL)
	if err != nil {
		s.log.Warn("failed to sign photo url", zap.String("id", u.ID), zap.Error(err))
		photoURL = ""
	}

	return User{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		DOB:             u.DOB,
		Gender:          string(u.Gender),
		Hobbies:         u.Hobbies,
		Photo:           photoURL,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
