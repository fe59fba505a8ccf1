package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provat/codetriage/internal/domain/models"
	apperror "github.com/provat/codetriage/pkg/errors"
)

func testSubscription(repoID uuid.UUID) *models.Subscription {
	return &models.Subscription{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		RepositoryID: repoID,
		Frequency:    models.FrequencyDaily,
		IsActive:     true,
		Repository:   models.Repository{Language: "Go"},
	}
}

func testUser() *models.User {
	return &models.User{
		ID:              uuid.New(),
		Username:        "octocat",
		Email:           "octocat@example.com",
		EmailFrequency:  models.EmailFrequencyDaily,
		MaxIssuesPerDay: 50,
	}
}

func openIssue(repoID uuid.UUID, number int, updated time.Time) *models.Issue {
	return &models.Issue{
		ID:           uuid.New(),
		RepositoryID: repoID,
		IssueNumber:  number,
		Title:        "issue",
		State:        models.IssueStateOpen,
		Difficulty:   models.DifficultyBeginner,
		LastUpdated:  updated,
	}
}

func TestMatchIssuesInactiveSubscription(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	sub.IsActive = false

	_, err := MatchIssues(sub, testUser(), nil, MatchFlags{})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidSubscription(err))
}

func TestMatchIssuesPausedSubscription(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	sub.Frequency = models.FrequencyPaused

	_, err := MatchIssues(sub, testUser(), nil, MatchFlags{})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidSubscription(err))
}

func TestMatchIssuesDropsOtherRepositoriesAndClosed(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	now := time.Now()

	wanted := openIssue(repoID, 1, now)
	foreign := openIssue(uuid.New(), 2, now)
	closed := openIssue(repoID, 3, now)
	closed.State = models.IssueStateClosed

	matched, err := MatchIssues(sub, testUser(), []*models.Issue{wanted, foreign, closed}, MatchFlags{})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, wanted.ID, matched[0].ID)
}

func TestMatchIssuesDifficultyPreference(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	sub.Preferences.Difficulty = []string{"Beginner"}
	now := time.Now()

	beginner := openIssue(repoID, 1, now)
	advanced := openIssue(repoID, 2, now)
	advanced.Difficulty = models.DifficultyAdvanced

	matched, err := MatchIssues(sub, testUser(), []*models.Issue{beginner, advanced}, MatchFlags{})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, beginner.ID, matched[0].ID)
}

func TestMatchIssuesLabelPreference(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	sub.Preferences.Labels = []string{"Bug"}
	now := time.Now()

	bug := openIssue(repoID, 1, now)
	bug.Labels = []string{"bug", "triage"}
	feature := openIssue(repoID, 2, now)
	feature.Labels = []string{"enhancement"}

	matched, err := MatchIssues(sub, testUser(), []*models.Issue{bug, feature}, MatchFlags{})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, bug.ID, matched[0].ID)
}

func TestMatchIssuesLanguagePreference(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	sub.Preferences.Languages = []string{"rust"}
	now := time.Now()

	// Repository language is Go, preference is rust; nothing should match
	matched, err := MatchIssues(sub, testUser(), []*models.Issue{openIssue(repoID, 1, now)}, MatchFlags{})
	require.NoError(t, err)
	assert.Empty(t, matched)

	sub.Preferences.Languages = []string{"GO"}
	matched, err = MatchIssues(sub, testUser(), []*models.Issue{openIssue(repoID, 1, now)}, MatchFlags{})
	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestMatchIssuesSkipsLinkedPRs(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	user := testUser()
	user.SkipIssuesWithPR = true
	now := time.Now()

	withPR := openIssue(repoID, 1, now)
	without := openIssue(repoID, 2, now)

	matched, err := MatchIssues(sub, user, []*models.Issue{withPR, without}, MatchFlags{
		LinkedPR: map[uuid.UUID]bool{withPR.ID: true},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, without.ID, matched[0].ID)

	// Setting disabled: linked PRs are delivered like any other issue
	user.SkipIssuesWithPR = false
	matched, err = MatchIssues(sub, user, []*models.Issue{withPR, without}, MatchFlags{
		LinkedPR: map[uuid.UUID]bool{withPR.ID: true},
	})
	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestMatchIssuesDeduplicates(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	user := testUser()
	now := time.Now()

	viaIssue := openIssue(repoID, 1, now)
	viaIssue.LastSentTo = []string{user.ID.String()}
	viaLog := openIssue(repoID, 2, now)
	fresh := openIssue(repoID, 3, now)

	matched, err := MatchIssues(sub, user, []*models.Issue{viaIssue, viaLog, fresh}, MatchFlags{
		AlreadySent: map[uuid.UUID]bool{viaLog.ID: true},
	})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, fresh.ID, matched[0].ID)
}

func TestMatchIssuesOrdering(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	older := openIssue(repoID, 10, base.Add(-time.Hour))
	newest := openIssue(repoID, 20, base)
	tiedHigh := openIssue(repoID, 30, base.Add(-2*time.Hour))
	tiedLow := openIssue(repoID, 5, base.Add(-2*time.Hour))

	matched, err := MatchIssues(sub, testUser(), []*models.Issue{older, newest, tiedHigh, tiedLow}, MatchFlags{})
	require.NoError(t, err)
	require.Len(t, matched, 4)

	assert.Equal(t, 20, matched[0].IssueNumber)
	assert.Equal(t, 10, matched[1].IssueNumber)
	// Equal timestamps fall back to ascending issue number
	assert.Equal(t, 5, matched[2].IssueNumber)
	assert.Equal(t, 30, matched[3].IssueNumber)
}

func TestMatchIssuesDailyLimit(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	user := testUser()
	user.MaxIssuesPerDay = 2
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	issues := []*models.Issue{
		openIssue(repoID, 1, base.Add(-3*time.Hour)),
		openIssue(repoID, 2, base.Add(-2*time.Hour)),
		openIssue(repoID, 3, base.Add(-time.Hour)),
	}

	matched, err := MatchIssues(sub, user, issues, MatchFlags{})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	// Limit keeps the most recently updated issues
	assert.Equal(t, 3, matched[0].IssueNumber)
	assert.Equal(t, 2, matched[1].IssueNumber)
}

func TestMatchIssuesZeroLimitMeansUnlimited(t *testing.T) {
	repoID := uuid.New()
	sub := testSubscription(repoID)
	user := testUser()
	user.MaxIssuesPerDay = 0
	now := time.Now()

	issues := []*models.Issue{
		openIssue(repoID, 1, now),
		openIssue(repoID, 2, now),
		openIssue(repoID, 3, now),
	}

	matched, err := MatchIssues(sub, user, issues, MatchFlags{})
	require.NoError(t, err)
	assert.Len(t, matched, 3)
}
