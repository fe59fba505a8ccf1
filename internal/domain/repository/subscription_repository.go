package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	// Create creates a new subscription
	Create(ctx context.Context, sub *models.Subscription) error

	// FindByID finds a subscription by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)

	// FindByUserAndRepository finds a subscription by its natural key,
	// including soft-deactivated rows
	FindByUserAndRepository(ctx context.Context, userID, repositoryID uuid.UUID) (*models.Subscription, error)

	// FindByUser returns the user's active subscriptions with repository info
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error)

	// FindActive returns all active subscriptions with user and repository info
	FindActive(ctx context.Context) ([]*models.Subscription, error)

	// Update updates a subscription
	Update(ctx context.Context, sub *models.Subscription) error

	// UpdateLastSent sets the lastSent timestamp of a subscription
	UpdateLastSent(ctx context.Context, id uuid.UUID) error

	// UpdatePreferencesForUser applies preferences to all active subscriptions of a user,
	// returning the number of rows changed
	UpdatePreferencesForUser(ctx context.Context, userID uuid.UUID, prefs models.SubscriptionPreferences) (int64, error)
}
