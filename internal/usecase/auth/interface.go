package auth

import "context"

// Usecase defines the interface for authentication business logic operations.
type Usecase interface {
	Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, in LoginRequest) (*AuthResponse, error)
}
