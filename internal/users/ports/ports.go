package ports

import (
	"context"

	"usersvc/internal/users/domain"
)

// UserRepository defines the interface for user persistence.
// The store enforces no invariants beyond key lookup; email
// uniqueness is the use case's responsibility.
type UserRepository interface {
	// ExistsByEmail reports whether a live user holds the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uint) (*domain.User, error)

	// Save persists the user, inserting when the ID is unset
	Save(ctx context.Context, user *domain.User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uint) error

	// List returns all users in the store's natural order
	List(ctx context.Context) ([]*domain.User, error)
}

// EventPublisher defines the interface for publishing lifecycle events.
// Publishing is fire-and-forget: implementations return immediately and
// confine every transport outcome to logging, never to the caller.
type EventPublisher interface {
	// PublishUserCreated announces a committed user creation
	PublishUserCreated(ctx context.Context, email string)

	// PublishUserDeleted announces a committed user deletion
	PublishUserDeleted(ctx context.Context, email string)
}
