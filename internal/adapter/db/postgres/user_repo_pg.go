package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-registration-service/internal/domain/user"
	apperrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/security"
)

// UserRepoPG implements the credential store using PostgreSQL and GORM.
// Passwords are hashed here, as an explicit step of Create/Update, before
// anything touches the database. Email uniqueness is guaranteed by the unique
// index, not only by the application-level pre-check; the database must be
// opened with TranslateError so the constraint violation surfaces as
// gorm.ErrDuplicatedKey.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID              string    `gorm:"primaryKey;size:36"`
	FirstName       string    `gorm:"not null"`
	LastName        string    `gorm:"not null"`
	Email           string    `gorm:"not null;uniqueIndex"`
	Password        string    `gorm:"not null"`
	DOB             time.Time `gorm:"not null"`
	Gender          string    `gorm:"not null"`
	Hobbies         []string  `gorm:"serializer:json"`
	Photo           string    `gorm:"not null"`
	IsEmailVerified bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func (m *UserSchema) toDomain() *user.User {
	hobbies := m.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	return &user.User{
		ID:              m.ID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		Password:        m.Password,
		DOB:             m.DOB,
		Gender:          user.Gender(m.Gender),
		Hobbies:         hobbies,
		Photo:           m.Photo,
		IsEmailVerified: m.IsEmailVerified,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// NormalizeEmail lower-cases and trims an email address before storage or
// lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user into the database. The plaintext password in u is
// hashed before the insert; the returned user carries the hash.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	hash, err := security.HashPassword(u.Password)
	if err != nil {
		return nil, apperrors.NewValidationError("password", err.Error())
	}

	model := UserSchema{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           NormalizeEmail(u.Email),
		Password:        hash,
		DOB:             u.DOB,
		Gender:          string(u.Gender),
		Hobbies:         u.Hobbies,
		Photo:           u.Photo,
		IsEmailVerified: u.IsEmailVerified,
	}
	if model.Hobbies == nil {
		model.Hobbies = []string{}
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate email on create", zap.String("email", model.Email))
			return nil, apperrors.ErrEmailExists
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", model.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.toDomain(), nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain(), nil
}

// GetByEmail retrieves a user from the database by their email address.
// It returns (nil, nil) when no user has that email.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return model.toDomain(), nil
}

// Update applies a partial patch to an existing user. The password is
// re-hashed only when the patch carries a new one; an unchanged password is
// never re-hashed.
func (r *UserRepoPG) Update(ctx context.Context, id string, patch user.Patch) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found for update", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to load user for update", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if patch.FirstName != nil {
		model.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		model.LastName = *patch.LastName
	}
	if patch.DOB != nil {
		model.DOB = *patch.DOB
	}
	if patch.Gender != nil {
		model.Gender = string(*patch.Gender)
	}
	if patch.Hobbies != nil {
		model.Hobbies = *patch.Hobbies
	}
	if patch.Photo != nil {
		model.Photo = *patch.Photo
	}
	if patch.Password != nil {
		hash, err := security.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperrors.NewValidationError("password", err.Error())
		}
		model.Password = hash
	}

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		r.log.Error("failed to update user in db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	r.log.Info("user updated in db", zap.String("id", model.ID))
	return model.toDomain(), nil
}

// Delete removes a user from the database by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete user in db", zap.Error(res.Error), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		r.log.Warn("user not found for delete", zap.String("id", id))
		return apperrors.NewNotFoundError("user", "User not found")
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return nil
}

// List retrieves all users ordered by creation time.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}

	return users, nil
}
