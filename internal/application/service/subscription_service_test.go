package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provat/codetriage/internal/domain/models"
	apperror "github.com/provat/codetriage/pkg/errors"
)

func subscriptionServiceFixture(subs *fakeSubscriptionRepo, repos *fakeRepoRepo) *SubscriptionService {
	if repos == nil {
		repos = &fakeRepoRepo{
			findByFullNameFn: func(ctx context.Context, fullName string) (*models.Repository, error) {
				return &models.Repository{ID: uuid.New(), FullName: fullName}, nil
			},
		}
	}
	return NewSubscriptionService(subs, repos)
}

func TestSubscribeCreatesNewSubscription(t *testing.T) {
	userID := uuid.New()

	var created *models.Subscription
	subs := &fakeSubscriptionRepo{
		findByUserAndRepositoryFn: func(ctx context.Context, uID, rID uuid.UUID) (*models.Subscription, error) {
			return nil, apperror.NotFound("subscription", apperror.ErrNotFound)
		},
		createFn: func(ctx context.Context, sub *models.Subscription) error {
			created = sub
			return nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)
	sub, err := svc.Subscribe(context.Background(), userID, SubscribeRequest{
		Owner:      "golang",
		Name:       "go",
		Difficulty: []string{"beginner"},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, models.FrequencyDaily, sub.Frequency, "empty frequency defaults to daily")
	assert.True(t, sub.IsActive)
	assert.Equal(t, "golang/go", sub.Repository.FullName)
}

func TestSubscribeActiveDuplicateIsConflict(t *testing.T) {
	userID := uuid.New()

	subs := &fakeSubscriptionRepo{
		findByUserAndRepositoryFn: func(ctx context.Context, uID, rID uuid.UUID) (*models.Subscription, error) {
			return &models.Subscription{UserID: uID, RepositoryID: rID, IsActive: true}, nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)
	_, err := svc.Subscribe(context.Background(), userID, SubscribeRequest{Owner: "golang", Name: "go"})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestSubscribeRevivesDeactivatedSubscription(t *testing.T) {
	userID := uuid.New()
	lastSent := time.Now().Add(-48 * time.Hour)

	var updated *models.Subscription
	subs := &fakeSubscriptionRepo{
		findByUserAndRepositoryFn: func(ctx context.Context, uID, rID uuid.UUID) (*models.Subscription, error) {
			return &models.Subscription{
				ID:           uuid.New(),
				UserID:       uID,
				RepositoryID: rID,
				IsActive:     false,
				Frequency:    models.FrequencyDaily,
				LastSent:     &lastSent,
			}, nil
		},
		updateFn: func(ctx context.Context, sub *models.Subscription) error {
			updated = sub
			return nil
		},
		createFn: func(ctx context.Context, sub *models.Subscription) error {
			t.Fatal("revival must update, not create")
			return nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)
	sub, err := svc.Subscribe(context.Background(), userID, SubscribeRequest{
		Owner:     "golang",
		Name:      "go",
		Frequency: "weekly",
	})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.True(t, sub.IsActive)
	assert.Equal(t, models.FrequencyWeekly, sub.Frequency)
	assert.Nil(t, sub.LastSent, "revival resets delivery history")
}

func TestSubscribeRejectsUnknownValues(t *testing.T) {
	svc := subscriptionServiceFixture(&fakeSubscriptionRepo{}, nil)

	_, err := svc.Subscribe(context.Background(), uuid.New(), SubscribeRequest{
		Owner: "golang", Name: "go", Frequency: "hourly",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsBadRequest(err))

	_, err = svc.Subscribe(context.Background(), uuid.New(), SubscribeRequest{
		Owner: "golang", Name: "go", Difficulty: []string{"impossible"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsBadRequest(err))
}

func TestUnsubscribeChecksOwnership(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	subID := uuid.New()

	var updated *models.Subscription
	subs := &fakeSubscriptionRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
			return &models.Subscription{ID: id, UserID: owner, IsActive: true}, nil
		},
		updateFn: func(ctx context.Context, sub *models.Subscription) error {
			updated = sub
			return nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)

	err := svc.Unsubscribe(context.Background(), stranger, subID)
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Nil(t, updated)

	err = svc.Unsubscribe(context.Background(), owner, subID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	owner := uuid.New()
	subID := uuid.New()

	subs := &fakeSubscriptionRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
			return &models.Subscription{
				ID:        id,
				UserID:    owner,
				IsActive:  true,
				Frequency: models.FrequencyDaily,
				Preferences: models.SubscriptionPreferences{
					Labels: []string{"bug"},
				},
			}, nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)

	weekly := "weekly"
	languages := []string{"Go", "Rust"}
	sub, err := svc.Update(context.Background(), owner, subID, UpdateSubscriptionRequest{
		Frequency: &weekly,
		Languages: &languages,
	})
	require.NoError(t, err)

	assert.Equal(t, models.FrequencyWeekly, sub.Frequency)
	assert.Equal(t, []string{"Go", "Rust"}, []string(sub.Preferences.Languages))
	// Untouched dimensions survive the patch
	assert.Equal(t, []string{"bug"}, []string(sub.Preferences.Labels))
}

func TestBulkUpdatePreferences(t *testing.T) {
	userID := uuid.New()

	var applied models.SubscriptionPreferences
	subs := &fakeSubscriptionRepo{
		updatePreferencesForUserFn: func(ctx context.Context, uID uuid.UUID, prefs models.SubscriptionPreferences) (int64, error) {
			applied = prefs
			return 3, nil
		},
	}

	svc := subscriptionServiceFixture(subs, nil)
	updated, err := svc.BulkUpdatePreferences(context.Background(), userID, []string{"Go"}, []string{"beginner"}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), updated)
	assert.Equal(t, []string{"Go"}, []string(applied.Languages))
	assert.Equal(t, []string{"beginner"}, []string(applied.Difficulty))
}
