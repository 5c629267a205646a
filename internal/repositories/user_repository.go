package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdatePreferences(ctx context.Context, id uint, changes map[string]bool) (*models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user, filling in the default preferences when none are set
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.Preferences.Data() == nil {
		user.Preferences = datatypes.NewJSONType(models.DefaultPreferences())
	}
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID. Every call hits the database so callers
// always see the current preference map.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users
func (r *PostgresUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePreferences merges changes into the stored preference map
func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, id uint, changes map[string]bool) (*models.User, error) {
	var updated *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		prefs := models.Preferences{}
		for k, v := range user.Preferences.Data() {
			prefs[k] = v
		}
		for k, v := range changes {
			prefs[k] = v
		}

		user.Preferences = datatypes.NewJSONType(prefs)
		if err := tx.Model(&user).Update("preferences", user.Preferences).Error; err != nil {
			return fmt.Errorf("update preferences: %w", err)
		}
		updated = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
