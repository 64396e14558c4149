package user

import "time"

// Gender is the fixed set of accepted gender values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents a user entity in the system.
// Password holds the bcrypt hash once the record has been persisted;
// it must never appear in any external representation.
type User struct {
	ID              string    // Unique identifier (UUID)
	FirstName       string    // Given name, non-empty
	LastName        string    // Family name, non-empty
	Email           string    // Unique email address, stored lower-cased
	Password        string    // Bcrypt hash at rest
	DOB             time.Time // Date of birth
	Gender          Gender    // One of male/female/other
	Hobbies         []string  // Free-text tags, default empty
	Photo           string    // Object storage locator, non-empty after creation
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Patch describes a partial update to a user record. Nil fields are
// left untouched.
type Patch struct {
	FirstName *string
	LastName  *string
	DOB       *time.Time
	Gender    *Gender
	Hobbies   *[]string
	Photo     *string
	Password  *string // plaintext; hashed by the store before persistence
}
