package domain

import (
	"context"
	"time"

	"rolloutlog.com/internal/model"
)

// Registration is the input to AuthService.Register.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileUpdate is the input to AuthService.UpdateProfile.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a user from public input. CreateName is SYSTEM.
	Register(ctx context.Context, in Registration) (*model.User, error)
	// Login verifies credentials and issues a signed session token.
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	// Logout revokes the presented token for its remaining lifetime.
	Logout(ctx context.Context, token string) error
	// Authenticate verifies a token and re-resolves its user against the
	// live store, so soft-deleted accounts fail immediately.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// GetProfile returns the caller's own record.
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	// UpdateProfile changes name/email, re-checking email uniqueness.
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*model.User, error)
	// ChangePassword swaps the stored hash after verifying the current one.
	ChangePassword(ctx context.Context, userID uint, current, next string) error
}

// ChangeLogService defines rollout record operations.
type ChangeLogService interface {
	// Create inserts one detail row per ticket reference, then the parent
	// record referencing their ids. actor is the authenticated user's email.
	Create(ctx context.Context, actor string, ticketInfo []string) (*model.ChangeLog, error)
	// List returns non-deleted change logs with details resolved,
	// newest first, capped at three.
	List(ctx context.Context) ([]model.ChangeLog, error)
}

// TokenDenylist revokes session tokens by jti until they expire naturally.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
