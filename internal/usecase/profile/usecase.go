package profile

import (
	"context"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-registration-service/internal/domain/user"
	apperrors "user-registration-service/pkg/errors"
)

// signedURLTTL bounds the lifetime of photo URLs returned to clients.
const signedURLTTL = 3600 * time.Second

// Repository defines the credential store operations needed by the profile
// pipeline.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}

// PhotoStore defines the blob store operations needed by the profile
// pipeline.
type PhotoStore interface {
	Upload(ctx context.Context, r io.Reader, name, contentType string) (string, error)
	Delete(ctx context.Context, locator string) error
	SignedURL(ctx context.Context, locator string, ttl time.Duration) (string, error)
}

// Service implements read, update, and delete of user profiles. Blob deletes
// are always best-effort: a failure is logged and never blocks the primary
// operation.
type Service struct {
	repo     Repository
	photos   PhotoStore
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new profile service.
func New(repo Repository, photos PhotoStore, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		photos:   photos,
		log:      log,
		validate: validator.New(),
	}
}

// ListUsers returns all users with passwords stripped and freshly signed
// photo URLs.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = s.toDTO(ctx, &domainUsers[i])
	}

	return &ListUsersResponse{Users: users, Count: len(users)}, nil
}

// GetUser retrieves a single user by ID.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := s.toDTO(ctx, u)
	return &dto, nil
}

// GetProfile retrieves the user bound to the authenticated token.
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.GetUser(ctx, userID)
}

// UpdateUser applies a partial update. When a replacement photo is staged,
// the new blob is uploaded first and the old blob is deleted afterwards;
// a failed old-blob delete is logged and ignored.
func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateRequest) (*User, error) {
	defer func() {
		if in.Photo != nil {
			if err := in.Photo.Release(); err != nil {
				s.log.Warn("failed to release staged photo", zap.Error(err))
			}
		}
	}()

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("update validation failed", zap.String("id", id), zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.Patch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		DOB:       in.DOB,
		Hobbies:   in.Hobbies,
	}
	if in.Gender != nil {
		g := domain.Gender(*in.Gender)
		patch.Gender = &g
	}

	oldLocator := ""
	if in.Photo != nil {
		body, err := in.Photo.Open()
		if err != nil {
			s.log.Error("failed to open staged photo", zap.Error(err))
			return nil, apperrors.NewUploadError("failed to read uploaded photo", err)
		}
		defer body.Close()

		locator, err := s.photos.Upload(ctx, body, in.Photo.Name, in.Photo.ContentType)
		if err != nil {
			s.log.Error("photo upload failed", zap.String("id", id), zap.Error(err))
			return nil, err
		}

		oldLocator = existing.Photo
		patch.Photo = &locator
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.log.Error("failed to update user", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// Old blob removal never blocks the update
	if oldLocator != "" {
		if err := s.photos.Delete(ctx, oldLocator); err != nil {
			s.log.Warn("failed to delete old photo", zap.String("id", id), zap.String("key", oldLocator), zap.Error(err))
		}
	}

	s.log.Info("user updated", zap.String("id", id))
	dto := s.toDTO(ctx, updated)
	return &dto, nil
}

// DeleteUser removes a user record. The photo blob is deleted best-effort
// first; a blob delete failure never blocks the record deletion.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.photos.Delete(ctx, u.Photo); err != nil {
		s.log.Warn("failed to delete photo", zap.String("id", id), zap.String("key", u.Photo), zap.Error(err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.String("id", id), zap.Error(err))
		return err
	}

	s.log.Info("user deleted", zap.String("id", id))
	return nil
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
		case "min":
			msg = e.Field() + " cannot be empty"
		case "oneof":
			msg = e.Field() + " must be one of: " + e.Param()
		default:
			msg = e.Field() + " is invalid"
		}
		fields = append(fields, apperrors.FieldError{Field: e.Field(), Message: msg})
	}

	return apperrors.NewValidationErrors(fields)
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
