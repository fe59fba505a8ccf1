package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
)

// SubscriptionRepoImpl implements the SubscriptionRepository interface using GORM
type SubscriptionRepoImpl struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepoImpl instance
func NewSubscriptionRepository(db *gorm.DB) repository.SubscriptionRepository {
	return &SubscriptionRepoImpl{db: db}
}

// Create creates a new subscription
func (r *SubscriptionRepoImpl) Create(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("already subscribed to this repository", apperror.ErrSubscriptionExists)
		}
		return apperror.DatabaseError("create subscription", err)
	}
	return nil
}

// FindByID retrieves a subscription by its ID
func (r *SubscriptionRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Repository").
		First(&sub, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("subscription", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find subscription", err)
	}
	return &sub, nil
}

// FindByUserAndRepository retrieves a subscription by its natural key.
// Deactivated rows are included so a resubscribe can revive them.
func (r *SubscriptionRepoImpl) FindByUserAndRepository(ctx context.Context, userID, repositoryID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND repository_id = ?", userID, repositoryID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("subscription", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find subscription", err)
	}
	return &sub, nil
}

// FindByUser returns the user's active subscriptions with repository info
func (r *SubscriptionRepoImpl) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Repository").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, apperror.DatabaseError("list subscriptions", err)
	}
	return subs, nil
}

// FindActive returns all active subscriptions with user and repository info
func (r *SubscriptionRepoImpl) FindActive(ctx context.Context) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Repository").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, apperror.DatabaseError("list subscriptions", err)
	}
	return subs, nil
}

// Update updates a subscription
func (r *SubscriptionRepoImpl) Update(ctx context.Context, sub *models.Subscription) error {
	result := r.db.WithContext(ctx).Save(sub)
	if result.Error != nil {
		return apperror.DatabaseError("update subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("subscription", apperror.ErrNotFound)
	}
	return nil
}

// UpdateLastSent sets the lastSent timestamp of a subscription to now
func (r *SubscriptionRepoImpl) UpdateLastSent(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("last_sent", time.Now())
	if result.Error != nil {
		return apperror.DatabaseError("update subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("subscription", apperror.ErrNotFound)
	}
	return nil
}

// UpdatePreferencesForUser applies preferences to all active subscriptions of a user
func (r *SubscriptionRepoImpl) UpdatePreferencesForUser(ctx context.Context, userID uuid.UUID, prefs models.SubscriptionPreferences) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"pref_languages":  prefs.Languages,
			"pref_difficulty": prefs.Difficulty,
			"pref_labels":     prefs.Labels,
		})
	if result.Error != nil {
		return 0, apperror.DatabaseError("update subscriptions", result.Error)
	}
	return result.RowsAffected, nil
}
