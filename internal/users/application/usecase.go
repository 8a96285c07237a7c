package application

import (
	"context"
	"strings"

	"usersvc/internal/users/domain"
	"usersvc/internal/users/ports"
	"usersvc/pkg/errors"
	"usersvc/pkg/logger"

	"go.uber.org/zap"
)

// UserUseCase handles user business logic
type UserUseCase struct {
	repo      ports.UserRepository
	publisher ports.EventPublisher
	log       *logger.Logger
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(repo ports.UserRepository, publisher ports.EventPublisher, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// CreateUserInput represents the input for creating a user
type CreateUserInput struct {
	Name  string
	Email string
	Age   int
}

// CreateUser creates a new user and announces the creation.
// The email uniqueness check and the insert are not atomic; two concurrent
// creates with the same email can both pass the check. The underlying store
// is the last line of defense, not this method.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	// Create domain entity with validation
	user, err := domain.NewUser(input.Name, input.Email, input.Age)
	if err != nil {
		return nil, err
	}

	// Check if email already exists
	exists, err := uc.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, errors.NewInternal("failed to check email existence", err)
	}
	if exists {
		return nil, domain.NewEmailExists(user.Email)
	}

	if err := uc.repo.Save(ctx, user); err != nil {
		return nil, errors.NewInternal("failed to create user", err)
	}

	// Announce after the store commit. The publisher never reports back;
	// a broker outage must not fail the create.
	if uc.publisher != nil {
		uc.publisher.PublishUserCreated(ctx, user.Email)
	}

	uc.log.WithContext(ctx).Info("user created",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListUsers returns all users in the store's natural order
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, errors.NewInternal("failed to list users", err)
	}
	return users, nil
}

// UpdateUserInput represents the patch for updating a user.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Age   *int
}

// IsEmpty reports whether the patch carries no fields
func (i UpdateUserInput) IsEmpty() bool {
	return i.Name == nil && i.Email == nil && i.Age == nil
}

// UpdateUser applies a partial update and returns the updated user.
// An empty patch is rejected before the store is touched. A provided
// non-positive age is ignored rather than rejected.
func (uc *UserUseCase) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error) {
	if input.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			user.Name = name
		}
	}

	if input.Email != nil {
		if email := strings.TrimSpace(*input.Email); email != "" && email != user.Email {
			exists, err := uc.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, errors.NewInternal("failed to check email existence", err)
			}
			if exists {
				return nil, domain.NewEmailExists(email)
			}
			user.Email = email
		}
	}

	if input.Age != nil && *input.Age > 0 {
		user.Age = *input.Age
	}

	if err := uc.repo.Save(ctx, user); err != nil {
		return nil, errors.NewInternal("failed to update user", err)
	}

	uc.log.WithContext(ctx).Info("user updated",
		zap.Uint("user_id", user.ID),
	)

	return user, nil
}

// DeleteUser deletes a user by ID and announces the deletion
func (uc *UserUseCase) DeleteUser(ctx context.Context, id uint) error {
	// Read first to capture the email for the event
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return errors.NewInternal("failed to delete user", err)
	}

	if uc.publisher != nil {
		uc.publisher.PublishUserDeleted(ctx, user.Email)
	}

	uc.log.WithContext(ctx).Info("user deleted",
		zap.Uint("user_id", id),
		zap.String("email", user.Email),
	)

	return nil
}
