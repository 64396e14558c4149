package auth

import (
	"time"

	"user-registration-service/pkg/upload"
)

// RegisterRequest represents the request payload for registering a new user.
// Photo carries the staged upload; it is required and is released by the
// pipeline on every exit path.
type RegisterRequest struct {
	FirstName string        `validate:"required"`
	LastName  string        `validate:"required"`
	Email     string        `validate:"required,email"`
	Password  string        `validate:"required,min=6"`
	DOB       time.Time     `validate:"required"`
	Gender    string        `validate:"required,oneof=male female other"`
	Hobbies   []string
	Photo     *upload.Photo
}

// LoginRequest represents the request payload for logging in.
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// User represents a user DTO for authentication responses. It never carries
// the password hash; Photo holds a time-limited signed URL.
type User struct {
	ID              string
	FirstName       string
	LastName        string
	Email           string
	DOB             time.Time
	Gender          string
	Hobbies         []string
	Photo           string
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuthResponse represents the response payload after a successful
// registration or login.
type AuthResponse struct {
	Token string
	User  User
}
