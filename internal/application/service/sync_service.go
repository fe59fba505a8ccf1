package service

import (
	"context"
	"sync"
	"time"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

// Concurrent repository reconciles during sync-on-login
const syncWorkers = 5

// SyncService mirrors repositories and their open issues from GitHub
type SyncService struct {
	repoRepo  repository.RepoRepository
	issueRepo repository.IssueRepository
	github    service.GitHubService
	log       *logger.Logger
}

// NewSyncService creates a new SyncService instance
func NewSyncService(
	repoRepo repository.RepoRepository,
	issueRepo repository.IssueRepository,
	github service.GitHubService,
) *SyncService {
	return &SyncService{
		repoRepo:  repoRepo,
		issueRepo: issueRepo,
		github:    github,
		log:       logger.Get().WithFields(logger.Component("sync")),
	}
}

// SyncRepository reconciles one repository and its open issues with GitHub.
// All upstream data is fetched before anything is written, so an upstream
// failure leaves the local mirror untouched.
func (s *SyncService) SyncRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	fullName := owner + "/" + name

	snapshot, err := s.github.GetRepository(ctx, owner, name)
	if err != nil {
		if apperror.IsNotFound(err) || apperror.IsRateLimited(err) {
			return nil, err
		}
		return nil, apperror.SyncError(fullName, err)
	}

	issues, err := s.github.GetRepositoryIssues(ctx, owner, name)
	if err != nil {
		if apperror.IsRateLimited(err) {
			return nil, err
		}
		return nil, apperror.SyncError(fullName, err)
	}

	repo, err := s.upsertRepository(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	for _, issue := range issues {
		record := &models.Issue{
			RepositoryID: repo.ID,
			IssueNumber:  issue.Number,
			Title:        issue.Title,
			Body:         issue.Body,
			URL:          issue.URL,
			HTMLURL:      issue.HTMLURL,
			Labels:       issue.Labels,
			State:        models.IssueStateOpen,
			Assignee:     issue.Assignee,
			Author:       issue.Author,
			Comments:     issue.Comments,
			Difficulty:   ClassifyDifficulty(issue.Labels),
			GitHubID:     issue.GitHubID,
			LastUpdated:  issue.LastUpdated,
		}
		if err := s.issueRepo.Upsert(ctx, record); err != nil {
			return nil, err
		}
	}

	s.log.Info("Repository synced",
		logger.Repository(fullName),
		logger.Int("open_issues", len(issues)),
	)
	return repo, nil
}

// SyncUserRepositories mirrors the repositories of a freshly logged-in user.
// Repositories are reconciled concurrently; individual failures are collected
// and do not abort the rest of the fan-out.
func (s *SyncService) SyncUserRepositories(ctx context.Context, token string) (int, []error) {
	snapshots, err := s.github.GetUserRepositories(ctx, token)
	if err != nil {
		return 0, []error{err}
	}

	sem := make(chan struct{}, syncWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var synced int
	var failures []error

	for _, snapshot := range snapshots {
		wg.Add(1)
		sem <- struct{}{}
		go func(snap *service.RepoSnapshot) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := s.upsertRepository(ctx, snap)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, apperror.SyncError(snap.FullName, err))
				return
			}
			synced++
		}(snapshot)
	}
	wg.Wait()

	s.log.Info("User repositories synced",
		logger.Int("synced", synced),
		logger.Int("failed", len(failures)),
	)
	return synced, failures
}

// upsertRepository maps an upstream snapshot onto the catalog record
func (s *SyncService) upsertRepository(ctx context.Context, snapshot *service.RepoSnapshot) (*models.Repository, error) {
	now := time.Now()
	repo := &models.Repository{
		Owner:         snapshot.Owner,
		Name:          snapshot.Name,
		FullName:      snapshot.FullName,
		Description:   snapshot.Description,
		Language:      snapshot.Language,
		Stars:         snapshot.Stars,
		Forks:         snapshot.Forks,
		Topics:        snapshot.Topics,
		URL:           snapshot.URL,
		HTMLURL:       snapshot.HTMLURL,
		CloneURL:      snapshot.CloneURL,
		DefaultBranch: snapshot.DefaultBranch,
		IsArchived:    snapshot.Archived,
		IsActive:      !snapshot.Archived && !snapshot.Disabled,
		LastSynced:    &now,
		GitHubID:      snapshot.GitHubID,
	}

	if err := s.repoRepo.Upsert(ctx, repo); err != nil {
		return nil, err
	}

	// Re-read so callers get the persisted row with its ID regardless of
	// whether the upsert inserted or updated
	return s.repoRepo.FindByFullName(ctx, snapshot.FullName)
}
