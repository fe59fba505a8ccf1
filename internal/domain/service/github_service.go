package service

import (
	"context"
	"time"
)

// RepoSnapshot is the upstream view of a repository
type RepoSnapshot struct {
	GitHubID      int64
	Owner         string
	Name          string
	FullName      string
	Description   string
	Language      string
	Stars         int
	Forks         int
	Topics        []string
	URL           string
	HTMLURL       string
	CloneURL      string
	DefaultBranch string
	Archived      bool
	Disabled      bool
}

// IssueSnapshot is the upstream view of an issue. Pull requests are
// filtered out before this type is produced.
type IssueSnapshot struct {
	GitHubID    int64
	Number      int
	Title       string
	Body        string
	URL         string
	HTMLURL     string
	Labels      []string
	State       string
	Assignee    string
	Author      string
	Comments    int
	LastUpdated time.Time
}

// UserSnapshot is the upstream view of the authenticated user
type UserSnapshot struct {
	GitHubID  int64
	Username  string
	Email     string
	AvatarURL string
}

// RateLimit reports the remaining upstream API quota
type RateLimit struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// GitHubService defines the interface for the upstream GitHub API
type GitHubService interface {
	// GetRepository fetches a repository by owner and name
	GetRepository(ctx context.Context, owner, name string) (*RepoSnapshot, error)

	// GetRepositoryIssues fetches all open issues of a repository,
	// excluding pull requests
	GetRepositoryIssues(ctx context.Context, owner, name string) ([]*IssueSnapshot, error)

	// GetAuthenticatedUser fetches the user owning the given OAuth token
	GetAuthenticatedUser(ctx context.Context, token string) (*UserSnapshot, error)

	// GetPrimaryEmail fetches the user's primary verified email address
	GetPrimaryEmail(ctx context.Context, token string) (string, error)

	// GetUserRepositories fetches the repositories the token's user owns or contributes to
	GetUserRepositories(ctx context.Context, token string) ([]*RepoSnapshot, error)

	// GetRateLimit fetches the current core API quota
	GetRateLimit(ctx context.Context) (*RateLimit, error)
}
