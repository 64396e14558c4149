package profile

import "context"

// Usecase defines the interface for profile business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, id string, in UpdateRequest) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}
