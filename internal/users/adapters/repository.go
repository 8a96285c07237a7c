package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/users/domain"
	apperrors "usersvc/pkg/errors"
)

// UserModel is the GORM model for users (persistence layer)
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Age       int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Migrate runs auto-migration for the user model
func (r *PostgresUserRepository) Migrate() error {
	return r.db.AutoMigrate(&UserModel{})
}

// ExistsByEmail reports whether a user with the email exists
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check email", result.Error)
	}

	return count > 0, nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewUserNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get user", result.Error)
	}

	return toDomain(&model), nil
}

// Save persists the user, inserting when the ID is unset
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	model := toModel(user)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}

	// Update domain entity with generated fields
	user.ID = model.ID
	user.CreatedAt = model.CreatedAt

	return nil
}

// Delete deletes a user by ID
func (r *PostgresUserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewUserNotFound(id)
	}
	return nil
}

// List returns all users in insertion order
func (r *PostgresUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var models []UserModel

	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list users", result.Error)
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, toDomain(&models[i]))
	}
	return users, nil
}

// toModel converts a domain entity to a GORM model
func toModel(user *domain.User) *UserModel {
	return &UserModel{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *UserModel) *domain.User {
	return &domain.User{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Age:       model.Age,
		CreatedAt: model.CreatedAt,
	}
}
