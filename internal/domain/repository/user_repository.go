package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByGitHubID finds a user by their GitHub numeric ID
	FindByGitHubID(ctx context.Context, githubID int64) (*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// FindByIDs finds users for the given IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
}
