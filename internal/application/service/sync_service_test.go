package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
)

func snapshotFixture() *service.RepoSnapshot {
	return &service.RepoSnapshot{
		GitHubID:      123,
		Owner:         "golang",
		Name:          "go",
		FullName:      "golang/go",
		Description:   "The Go programming language",
		Language:      "Go",
		Stars:         120000,
		DefaultBranch: "master",
	}
}

func TestSyncRepositoryUpsertsRepoAndIssues(t *testing.T) {
	repoID := uuid.New()
	snapshot := snapshotFixture()

	github := &fakeGitHub{
		getRepositoryFn: func(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
			assert.Equal(t, "golang", owner)
			assert.Equal(t, "go", name)
			return snapshot, nil
		},
		getRepositoryIssuesFn: func(ctx context.Context, owner, name string) ([]*service.IssueSnapshot, error) {
			return []*service.IssueSnapshot{
				{Number: 1, Title: "easy one", Labels: []string{"good first issue"}, LastUpdated: time.Now()},
				{Number: 2, Title: "tricky one", Labels: []string{"hard"}, LastUpdated: time.Now()},
			}, nil
		},
	}

	var upsertedRepo *models.Repository
	repos := &fakeRepoRepo{
		upsertFn: func(ctx context.Context, repo *models.Repository) error {
			upsertedRepo = repo
			return nil
		},
		findByFullNameFn: func(ctx context.Context, fullName string) (*models.Repository, error) {
			return &models.Repository{ID: repoID, FullName: fullName}, nil
		},
	}

	var upsertedIssues []*models.Issue
	issues := &fakeIssueRepo{
		upsertFn: func(ctx context.Context, issue *models.Issue) error {
			upsertedIssues = append(upsertedIssues, issue)
			return nil
		},
	}

	svc := NewSyncService(repos, issues, github)
	repo, err := svc.SyncRepository(context.Background(), "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, repoID, repo.ID)

	require.NotNil(t, upsertedRepo)
	assert.Equal(t, "golang/go", upsertedRepo.FullName)
	assert.True(t, upsertedRepo.IsActive)
	require.NotNil(t, upsertedRepo.LastSynced)

	require.Len(t, upsertedIssues, 2)
	assert.Equal(t, repoID, upsertedIssues[0].RepositoryID)
	assert.Equal(t, models.DifficultyBeginner, upsertedIssues[0].Difficulty)
	assert.Equal(t, models.DifficultyAdvanced, upsertedIssues[1].Difficulty)
	assert.Equal(t, models.IssueStateOpen, upsertedIssues[0].State)
}

func TestSyncRepositoryArchivedBecomesInactive(t *testing.T) {
	snapshot := snapshotFixture()
	snapshot.Archived = true

	github := &fakeGitHub{
		getRepositoryFn: func(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
			return snapshot, nil
		},
	}

	var upserted *models.Repository
	repos := &fakeRepoRepo{
		upsertFn: func(ctx context.Context, repo *models.Repository) error {
			upserted = repo
			return nil
		},
		findByFullNameFn: func(ctx context.Context, fullName string) (*models.Repository, error) {
			return &models.Repository{FullName: fullName}, nil
		},
	}

	svc := NewSyncService(repos, &fakeIssueRepo{}, github)
	_, err := svc.SyncRepository(context.Background(), "golang", "go")
	require.NoError(t, err)

	require.NotNil(t, upserted)
	assert.True(t, upserted.IsArchived)
	assert.False(t, upserted.IsActive)
}

func TestSyncRepositoryFetchFailureWritesNothing(t *testing.T) {
	github := &fakeGitHub{
		getRepositoryFn: func(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
			return snapshotFixture(), nil
		},
		getRepositoryIssuesFn: func(ctx context.Context, owner, name string) ([]*service.IssueSnapshot, error) {
			return nil, apperror.UpstreamError("list issues", 502, assert.AnError)
		},
	}

	repos := &fakeRepoRepo{
		upsertFn: func(ctx context.Context, repo *models.Repository) error {
			t.Fatal("repository must not be written when the issue fetch fails")
			return nil
		},
	}
	issues := &fakeIssueRepo{
		upsertFn: func(ctx context.Context, issue *models.Issue) error {
			t.Fatal("issues must not be written when the issue fetch fails")
			return nil
		},
	}

	svc := NewSyncService(repos, issues, github)
	_, err := svc.SyncRepository(context.Background(), "golang", "go")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrSyncFailed)
}

func TestSyncRepositoryNotFoundPassesThrough(t *testing.T) {
	github := &fakeGitHub{
		getRepositoryFn: func(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		},
	}

	svc := NewSyncService(&fakeRepoRepo{}, &fakeIssueRepo{}, github)
	_, err := svc.SyncRepository(context.Background(), "golang", "nope")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.NotErrorIs(t, err, apperror.ErrSyncFailed)
}

func TestSyncUserRepositoriesCollectsPartialFailures(t *testing.T) {
	good := snapshotFixture()
	bad := &service.RepoSnapshot{Owner: "broken", Name: "repo", FullName: "broken/repo"}

	github := &fakeGitHub{
		getUserReposFn: func(ctx context.Context, token string) ([]*service.RepoSnapshot, error) {
			return []*service.RepoSnapshot{good, bad}, nil
		},
	}

	repos := &fakeRepoRepo{
		upsertFn: func(ctx context.Context, repo *models.Repository) error {
			if repo.FullName == "broken/repo" {
				return apperror.DatabaseError("upsert repository", assert.AnError)
			}
			return nil
		},
		findByFullNameFn: func(ctx context.Context, fullName string) (*models.Repository, error) {
			return &models.Repository{FullName: fullName}, nil
		},
	}

	svc := NewSyncService(repos, &fakeIssueRepo{}, github)
	synced, failures := svc.SyncUserRepositories(context.Background(), "gho_token")

	assert.Equal(t, 1, synced)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], apperror.ErrSyncFailed)
}
