package service

import (
	"context"
	"strings"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

// RepoService handles catalog repository operations
type RepoService struct {
	repoRepo repository.RepoRepository
	sync     *SyncService
	log      *logger.Logger
}

// NewRepoService creates a new RepoService instance
func NewRepoService(repoRepo repository.RepoRepository, sync *SyncService) *RepoService {
	return &RepoService{
		repoRepo: repoRepo,
		sync:     sync,
		log:      logger.Get().WithFields(logger.Component("repo-service")),
	}
}

// ListRepositories lists active repositories matching the filter
func (s *RepoService) ListRepositories(ctx context.Context, filter repository.RepoListFilter) ([]*models.Repository, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repoRepo.List(ctx, filter)
}

// GetRepository retrieves a repository by owner and name
func (s *RepoService) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	if owner == "" || name == "" {
		return nil, apperror.BadRequest("owner and name are required", apperror.ErrInvalidInput)
	}
	return s.repoRepo.FindByFullName(ctx, owner+"/"+name)
}

// AddRepository registers a repository in the catalog. The repository must
// exist upstream; registration runs a full sync so issues are available
// immediately.
func (s *RepoService) AddRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" || name == "" {
		return nil, apperror.ValidationError("fullName", "owner and name are required")
	}

	fullName := owner + "/" + name
	if _, err := s.repoRepo.FindByFullName(ctx, fullName); err == nil {
		return nil, apperror.Conflict("repository already tracked", apperror.ErrRepositoryExists)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	repo, err := s.sync.SyncRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	s.log.Info("Repository added to catalog",
		logger.Repository(fullName),
	)
	return repo, nil
}

// ListLanguages returns the distinct languages of active repositories
func (s *RepoService) ListLanguages(ctx context.Context) ([]string, error) {
	return s.repoRepo.DistinctLanguages(ctx)
}
