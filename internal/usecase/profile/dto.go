package profile

import (
	"time"

	"user-registration-service/pkg/upload"
)

// UpdateRequest represents a partial update to a user profile. Nil fields are
// left untouched; Photo, when present, replaces the stored photo.
type UpdateRequest struct {
	FirstName *string       `validate:"omitnil,min=1"`
	LastName  *string       `validate:"omitnil,min=1"`
	DOB       *time.Time
	Gender    *string       `validate:"omitnil,oneof=male female other"`
	Hobbies   *[]string
	Photo     *upload.Photo
}

// User represents a user DTO for profile responses. It never carries the
// password hash; Photo holds a time-limited signed URL.
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

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
	Count int
}
