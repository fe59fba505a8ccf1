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

const maxIssuesPerDayCeiling = 100

// UpdateSettingsRequest represents a partial settings update
type UpdateSettingsRequest struct {
	EmailFrequency    *string
	EmailTimeOfDay    *string
	MaxIssuesPerDay   *int
	SkipIssuesWithPR  *bool
	FavoriteLanguages *[]string
	IsPublic          *bool
}

// UserService handles user profile and settings operations
type UserService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      logger.Get().WithFields(logger.Component("user-service")),
	}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateSettings applies a validated partial update to the user's settings
func (s *UserService) UpdateSettings(ctx context.Context, userID uuid.UUID, req UpdateSettingsRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EmailFrequency != nil {
		frequency := models.EmailFrequency(*req.EmailFrequency)
		if !frequency.IsValid() {
			return nil, apperror.ValidationError("emailFrequency", "emailFrequency must be daily, weekly or off")
		}
		user.EmailFrequency = frequency
	}
	if req.EmailTimeOfDay != nil {
		user.EmailTimeOfDay = *req.EmailTimeOfDay
	}
	if req.MaxIssuesPerDay != nil {
		if *req.MaxIssuesPerDay < 1 || *req.MaxIssuesPerDay > maxIssuesPerDayCeiling {
			return nil, apperror.ValidationError("maxIssuesPerDay", "maxIssuesPerDay must be between 1 and 100")
		}
		user.MaxIssuesPerDay = *req.MaxIssuesPerDay
	}
	if req.SkipIssuesWithPR != nil {
		user.SkipIssuesWithPR = *req.SkipIssuesWithPR
	}
	if req.FavoriteLanguages != nil {
		user.FavoriteLanguages = pq.StringArray(*req.FavoriteLanguages)
	}
	if req.IsPublic != nil {
		user.IsPublic = *req.IsPublic
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Debug("User settings updated",
		logger.UserID(userID.String()),
	)
	return user, nil
}
