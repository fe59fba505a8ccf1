package service

import (
	"context"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
)

// IssueService handles read access to mirrored issues
type IssueService struct {
	repoRepo  repository.RepoRepository
	issueRepo repository.IssueRepository
}

// NewIssueService creates a new IssueService instance
func NewIssueService(repoRepo repository.RepoRepository, issueRepo repository.IssueRepository) *IssueService {
	return &IssueService{
		repoRepo:  repoRepo,
		issueRepo: issueRepo,
	}
}

// ListIssues lists the open issues of a repository matching the filter
func (s *IssueService) ListIssues(ctx context.Context, owner, name string, filter repository.IssueListFilter) ([]*models.Issue, int64, error) {
	repo, err := s.repoRepo.FindByFullName(ctx, owner+"/"+name)
	if err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.issueRepo.List(ctx, repo.ID, filter)
}

// GetIssue retrieves a single issue by repository and number
func (s *IssueService) GetIssue(ctx context.Context, owner, name string, issueNumber int) (*models.Issue, error) {
	repo, err := s.repoRepo.FindByFullName(ctx, owner+"/"+name)
	if err != nil {
		return nil, err
	}
	return s.issueRepo.FindByNumber(ctx, repo.ID, issueNumber)
}

// ListLabels returns the distinct labels across a repository's open issues
func (s *IssueService) ListLabels(ctx context.Context, owner, name string) ([]string, error) {
	repo, err := s.repoRepo.FindByFullName(ctx, owner+"/"+name)
	if err != nil {
		return nil, err
	}
	return s.issueRepo.DistinctLabels(ctx, repo.ID)
}

// CountDifficulties returns open issue counts per difficulty level, including
// zero counts for levels without issues
func (s *IssueService) CountDifficulties(ctx context.Context, owner, name string) (map[models.Difficulty]int64, error) {
	repo, err := s.repoRepo.FindByFullName(ctx, owner+"/"+name)
	if err != nil {
		return nil, err
	}

	counts, err := s.issueRepo.CountByDifficulty(ctx, repo.ID)
	if err != nil {
		return nil, err
	}

	for _, level := range DifficultyLevels() {
		if _, ok := counts[level]; !ok {
			counts[level] = 0
		}
	}
	return counts, nil
}
