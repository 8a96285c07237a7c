package domain

import "usersvc/pkg/errors"

// Domain-specific errors
var (
	ErrNameRequired  = errors.NewValidation("name is required", nil)
	ErrNameLength    = errors.NewValidation("name must be between 1 and 100 characters", nil)
	ErrEmailRequired = errors.NewValidation("email is required", nil)
	ErrEmailInvalid  = errors.NewValidation("email format is invalid", nil)
	ErrAgeInvalid    = errors.NewValidation("age must be at least 1", nil)
	ErrEmptyUpdate   = errors.NewValidation("update must contain at least one field", nil)
)

// NewUserNotFound creates a not found error with the user ID
func NewUserNotFound(id uint) error {
	return errors.NewNotFound("user", id)
}

// NewEmailExists creates a conflict error for a taken email
func NewEmailExists(email string) error {
	return errors.NewConflict("user with email '" + email + "' already exists")
}
