package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	"github.com/provat/codetriage/internal/domain/service"
)

type fakeRepoRepo struct {
	createFn            func(ctx context.Context, repo *models.Repository) error
	upsertFn            func(ctx context.Context, repo *models.Repository) error
	findByIDFn          func(ctx context.Context, id uuid.UUID) (*models.Repository, error)
	findByFullNameFn    func(ctx context.Context, fullName string) (*models.Repository, error)
	listFn              func(ctx context.Context, filter repository.RepoListFilter) ([]*models.Repository, int64, error)
	distinctLanguagesFn func(ctx context.Context) ([]string, error)
}

func (f *fakeRepoRepo) Create(ctx context.Context, repo *models.Repository) error {
	if f.createFn != nil {
		return f.createFn(ctx, repo)
	}
	return nil
}

func (f *fakeRepoRepo) Upsert(ctx context.Context, repo *models.Repository) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, repo)
	}
	return nil
}

func (f *fakeRepoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Repository, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepoRepo) FindByFullName(ctx context.Context, fullName string) (*models.Repository, error) {
	if f.findByFullNameFn != nil {
		return f.findByFullNameFn(ctx, fullName)
	}
	return nil, nil
}

func (f *fakeRepoRepo) List(ctx context.Context, filter repository.RepoListFilter) ([]*models.Repository, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeRepoRepo) DistinctLanguages(ctx context.Context) ([]string, error) {
	if f.distinctLanguagesFn != nil {
		return f.distinctLanguagesFn(ctx)
	}
	return nil, nil
}

type fakeIssueRepo struct {
	upsertFn               func(ctx context.Context, issue *models.Issue) error
	findByIDFn             func(ctx context.Context, id uuid.UUID) (*models.Issue, error)
	findByNumberFn         func(ctx context.Context, repositoryID uuid.UUID, issueNumber int) (*models.Issue, error)
	findOpenByRepositoryFn func(ctx context.Context, repositoryID uuid.UUID) ([]*models.Issue, error)
	listFn                 func(ctx context.Context, repositoryID uuid.UUID, filter repository.IssueListFilter) ([]*models.Issue, int64, error)
	distinctLabelsFn       func(ctx context.Context, repositoryID uuid.UUID) ([]string, error)
	countByDifficultyFn    func(ctx context.Context, repositoryID uuid.UUID) (map[models.Difficulty]int64, error)
	appendLastSentToFn     func(ctx context.Context, issueID, userID uuid.UUID) error
}

func (f *fakeIssueRepo) Upsert(ctx context.Context, issue *models.Issue) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, issue)
	}
	return nil
}

func (f *fakeIssueRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeIssueRepo) FindByNumber(ctx context.Context, repositoryID uuid.UUID, issueNumber int) (*models.Issue, error) {
	if f.findByNumberFn != nil {
		return f.findByNumberFn(ctx, repositoryID, issueNumber)
	}
	return nil, nil
}

func (f *fakeIssueRepo) FindOpenByRepository(ctx context.Context, repositoryID uuid.UUID) ([]*models.Issue, error) {
	if f.findOpenByRepositoryFn != nil {
		return f.findOpenByRepositoryFn(ctx, repositoryID)
	}
	return nil, nil
}

func (f *fakeIssueRepo) List(ctx context.Context, repositoryID uuid.UUID, filter repository.IssueListFilter) ([]*models.Issue, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, repositoryID, filter)
	}
	return nil, 0, nil
}

func (f *fakeIssueRepo) DistinctLabels(ctx context.Context, repositoryID uuid.UUID) ([]string, error) {
	if f.distinctLabelsFn != nil {
		return f.distinctLabelsFn(ctx, repositoryID)
	}
	return nil, nil
}

func (f *fakeIssueRepo) CountByDifficulty(ctx context.Context, repositoryID uuid.UUID) (map[models.Difficulty]int64, error) {
	if f.countByDifficultyFn != nil {
		return f.countByDifficultyFn(ctx, repositoryID)
	}
	return nil, nil
}

func (f *fakeIssueRepo) AppendLastSentTo(ctx context.Context, issueID, userID uuid.UUID) error {
	if f.appendLastSentToFn != nil {
		return f.appendLastSentToFn(ctx, issueID, userID)
	}
	return nil
}

type fakeSubscriptionRepo struct {
	createFn                   func(ctx context.Context, sub *models.Subscription) error
	findByIDFn                 func(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	findByUserAndRepositoryFn  func(ctx context.Context, userID, repositoryID uuid.UUID) (*models.Subscription, error)
	findByUserFn               func(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error)
	findActiveFn               func(ctx context.Context) ([]*models.Subscription, error)
	updateFn                   func(ctx context.Context, sub *models.Subscription) error
	updateLastSentFn           func(ctx context.Context, id uuid.UUID) error
	updatePreferencesForUserFn func(ctx context.Context, userID uuid.UUID, prefs models.SubscriptionPreferences) (int64, error)
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	if f.createFn != nil {
		return f.createFn(ctx, sub)
	}
	return nil
}

func (f *fakeSubscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindByUserAndRepository(ctx context.Context, userID, repositoryID uuid.UUID) (*models.Subscription, error) {
	if f.findByUserAndRepositoryFn != nil {
		return f.findByUserAndRepositoryFn(ctx, userID, repositoryID)
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	if f.findByUserFn != nil {
		return f.findByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindActive(ctx context.Context) ([]*models.Subscription, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *models.Subscription) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, sub)
	}
	return nil
}

func (f *fakeSubscriptionRepo) UpdateLastSent(ctx context.Context, id uuid.UUID) error {
	if f.updateLastSentFn != nil {
		return f.updateLastSentFn(ctx, id)
	}
	return nil
}

func (f *fakeSubscriptionRepo) UpdatePreferencesForUser(ctx context.Context, userID uuid.UUID, prefs models.SubscriptionPreferences) (int64, error) {
	if f.updatePreferencesForUserFn != nil {
		return f.updatePreferencesForUserFn(ctx, userID, prefs)
	}
	return 0, nil
}

type fakeSentLogRepo struct {
	createFn             func(ctx context.Context, entry *models.SentLog) error
	findByIssueAndUserFn func(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error)
	updateFn             func(ctx context.Context, entry *models.SentLog) error
	sentIssueIDsFn       func(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

func (f *fakeSentLogRepo) Create(ctx context.Context, entry *models.SentLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeSentLogRepo) FindByIssueAndUser(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
	if f.findByIssueAndUserFn != nil {
		return f.findByIssueAndUserFn(ctx, issueID, userID)
	}
	return nil, nil
}

func (f *fakeSentLogRepo) Update(ctx context.Context, entry *models.SentLog) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, entry)
	}
	return nil
}

func (f *fakeSentLogRepo) SentIssueIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	if f.sentIssueIDsFn != nil {
		return f.sentIssueIDsFn(ctx, userID)
	}
	return map[uuid.UUID]bool{}, nil
}

type fakeGitHub struct {
	getRepositoryFn       func(ctx context.Context, owner, name string) (*service.RepoSnapshot, error)
	getRepositoryIssuesFn func(ctx context.Context, owner, name string) ([]*service.IssueSnapshot, error)
	getUserReposFn        func(ctx context.Context, token string) ([]*service.RepoSnapshot, error)
}

func (f *fakeGitHub) GetRepository(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
	if f.getRepositoryFn != nil {
		return f.getRepositoryFn(ctx, owner, name)
	}
	return nil, nil
}

func (f *fakeGitHub) GetRepositoryIssues(ctx context.Context, owner, name string) ([]*service.IssueSnapshot, error) {
	if f.getRepositoryIssuesFn != nil {
		return f.getRepositoryIssuesFn(ctx, owner, name)
	}
	return nil, nil
}

func (f *fakeGitHub) GetAuthenticatedUser(ctx context.Context, token string) (*service.UserSnapshot, error) {
	return nil, nil
}

func (f *fakeGitHub) GetPrimaryEmail(ctx context.Context, token string) (string, error) {
	return "", nil
}

func (f *fakeGitHub) GetUserRepositories(ctx context.Context, token string) ([]*service.RepoSnapshot, error) {
	if f.getUserReposFn != nil {
		return f.getUserReposFn(ctx, token)
	}
	return nil, nil
}

func (f *fakeGitHub) GetRateLimit(ctx context.Context) (*service.RateLimit, error) {
	return nil, nil
}

type fakeMailer struct {
	sendFn func(ctx context.Context, msg *service.Message) (string, error)
}

func (f *fakeMailer) Send(ctx context.Context, msg *service.Message) (string, error) {
	if f.sendFn != nil {
		return f.sendFn(ctx, msg)
	}
	return "fake-message-id", nil
}
