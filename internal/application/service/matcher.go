package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	apperror "github.com/provat/codetriage/pkg/errors"
)

// MatchFlags carries per-run context the matcher cannot derive from the
// issues themselves
type MatchFlags struct {
	// LinkedPR marks issues that already have a pull request attached
	LinkedPR map[uuid.UUID]bool
	// AlreadySent marks issues already delivered to the subscription's user
	AlreadySent map[uuid.UUID]bool
}

// MatchIssues selects the issues a subscription should receive, in delivery
// order. Candidates from other repositories or in a closed state are dropped,
// then the subscription preferences and user settings are applied, then
// anything the user has already seen. The result is capped at the user's
// daily limit; a limit of 0 means no cap.
func MatchIssues(sub *models.Subscription, user *models.User, issues []*models.Issue, flags MatchFlags) ([]*models.Issue, error) {
	if !sub.IsActive {
		return nil, apperror.InvalidSubscription("subscription is not active")
	}
	if sub.Frequency == models.FrequencyPaused {
		return nil, apperror.InvalidSubscription("subscription is paused")
	}

	var matched []*models.Issue
	for _, issue := range issues {
		if issue.RepositoryID != sub.RepositoryID || issue.State != models.IssueStateOpen {
			continue
		}
		if !matchesPreferences(sub, issue) {
			continue
		}
		if user.SkipIssuesWithPR && flags.LinkedPR[issue.ID] {
			continue
		}
		if issue.WasSentTo(user.ID) || flags.AlreadySent[issue.ID] {
			continue
		}
		matched = append(matched, issue)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].LastUpdated.Equal(matched[j].LastUpdated) {
			return matched[i].LastUpdated.After(matched[j].LastUpdated)
		}
		return matched[i].IssueNumber < matched[j].IssueNumber
	})

	if limit := user.MaxIssuesPerDay; limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// matchesPreferences applies the subscription's filter dimensions. An empty
// dimension imposes no constraint.
func matchesPreferences(sub *models.Subscription, issue *models.Issue) bool {
	prefs := sub.Preferences

	if len(prefs.Difficulty) > 0 && !containsFold(prefs.Difficulty, string(issue.Difficulty)) {
		return false
	}

	if len(prefs.Labels) > 0 && !anyLabelMatches(prefs.Labels, issue.Labels) {
		return false
	}

	if len(prefs.Languages) > 0 && !containsFold(prefs.Languages, sub.Repository.Language) {
		return false
	}

	return true
}

// anyLabelMatches reports whether at least one wanted label appears on the issue
func anyLabelMatches(wanted, labels []string) bool {
	for _, want := range wanted {
		for _, label := range labels {
			if strings.EqualFold(want, label) {
				return true
			}
		}
	}
	return false
}

// containsFold reports whether values contains v case-insensitively
func containsFold(values []string, v string) bool {
	for _, value := range values {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}
