package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

// SubscribeRequest carries the inputs for creating or reviving a subscription
type SubscribeRequest struct {
	Owner      string
	Name       string
	Frequency  string
	Languages  []string
	Difficulty []string
	Labels     []string
}

// UpdateSubscriptionRequest carries a partial subscription update
type UpdateSubscriptionRequest struct {
	Frequency  *string
	Languages  *[]string
	Difficulty *[]string
	Labels     *[]string
}

// SubscriptionService handles subscription lifecycle operations
type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	repoRepo repository.RepoRepository
	log      *logger.Logger
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(subRepo repository.SubscriptionRepository, repoRepo repository.RepoRepository) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		repoRepo: repoRepo,
		log:      logger.Get().WithFields(logger.Component("subscription-service")),
	}
}

// ListForUser returns the user's active subscriptions with repository info
func (s *SubscriptionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	return s.subRepo.FindByUser(ctx, userID)
}

// Subscribe subscribes a user to a repository. Resubscribing to a soft-deleted
// subscription revives it with the new settings; an already active one is a
// Conflict.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, req SubscribeRequest) (*models.Subscription, error) {
	frequency := models.SubscriptionFrequency(req.Frequency)
	if req.Frequency == "" {
		frequency = models.FrequencyDaily
	}
	if !frequency.IsValid() {
		return nil, apperror.ValidationError("frequency", "frequency must be daily, weekly or paused")
	}
	if err := validateDifficulties(req.Difficulty); err != nil {
		return nil, err
	}

	repo, err := s.repoRepo.FindByFullName(ctx, req.Owner+"/"+req.Name)
	if err != nil {
		return nil, err
	}

	prefs := models.SubscriptionPreferences{
		Languages:  pq.StringArray(req.Languages),
		Difficulty: pq.StringArray(req.Difficulty),
		Labels:     pq.StringArray(req.Labels),
	}

	existing, err := s.subRepo.FindByUserAndRepository(ctx, userID, repo.ID)
	if err == nil {
		if existing.IsActive {
			return nil, apperror.Conflict("already subscribed to this repository", apperror.ErrSubscriptionExists)
		}
		existing.IsActive = true
		existing.Frequency = frequency
		existing.Preferences = prefs
		existing.LastSent = nil
		if err := s.subRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		existing.Repository = *repo
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:       userID,
		RepositoryID: repo.ID,
		Frequency:    frequency,
		IsActive:     true,
		Preferences:  prefs,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("Subscription created",
		logger.UserID(userID.String()),
		logger.Repository(repo.FullName),
	)
	sub.Repository = *repo
	return sub, nil
}

// Unsubscribe soft-deletes a subscription owned by the user
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, subID uuid.UUID) error {
	sub, err := s.subRepo.FindByID(ctx, subID)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return apperror.Forbidden("subscription belongs to another user", apperror.ErrForbidden)
	}

	sub.IsActive = false
	return s.subRepo.Update(ctx, sub)
}

// Update applies a partial update to a subscription owned by the user
func (s *SubscriptionService) Update(ctx context.Context, userID, subID uuid.UUID, req UpdateSubscriptionRequest) (*models.Subscription, error) {
	sub, err := s.subRepo.FindByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, apperror.Forbidden("subscription belongs to another user", apperror.ErrForbidden)
	}

	if req.Frequency != nil {
		frequency := models.SubscriptionFrequency(*req.Frequency)
		if !frequency.IsValid() {
			return nil, apperror.ValidationError("frequency", "frequency must be daily, weekly or paused")
		}
		sub.Frequency = frequency
	}
	if req.Languages != nil {
		sub.Preferences.Languages = pq.StringArray(*req.Languages)
	}
	if req.Difficulty != nil {
		if err := validateDifficulties(*req.Difficulty); err != nil {
			return nil, err
		}
		sub.Preferences.Difficulty = pq.StringArray(*req.Difficulty)
	}
	if req.Labels != nil {
		sub.Preferences.Labels = pq.StringArray(*req.Labels)
	}

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// BulkUpdatePreferences applies a preference patch to every active
// subscription of the user, returning how many were changed
func (s *SubscriptionService) BulkUpdatePreferences(ctx context.Context, userID uuid.UUID, languages, difficulty, labels []string) (int64, error) {
	if err := validateDifficulties(difficulty); err != nil {
		return 0, err
	}

	prefs := models.SubscriptionPreferences{
		Languages:  pq.StringArray(languages),
		Difficulty: pq.StringArray(difficulty),
		Labels:     pq.StringArray(labels),
	}
	return s.subRepo.UpdatePreferencesForUser(ctx, userID, prefs)
}

// validateDifficulties rejects difficulty values outside the supported levels
func validateDifficulties(values []string) error {
	for _, value := range values {
		valid := false
		for _, level := range DifficultyLevels() {
			if value == string(level) {
				valid = true
				break
			}
		}
		if !valid {
			return apperror.ValidationError("difficulty", "unknown difficulty level: "+value)
		}
	}
	return nil
}
