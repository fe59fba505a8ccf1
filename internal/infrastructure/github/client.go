package github

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

const (
	apiVersion    = "2022-11-28"
	issuesPerPage = 100
)

// Client implements the GitHubService interface against the GitHub REST API
type Client struct {
	http  *resty.Client
	token string
	log   *logger.Logger
}

// NewClient creates a new GitHub API client. The configured token, if any,
// is used for requests that do not carry a user's OAuth token.
func NewClient(cfg *config.GitHubConfig) service.GitHubService {
	httpClient := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(3).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", apiVersion)

	return &Client{
		http:  httpClient,
		token: cfg.Token,
		log:   logger.Get().WithFields(logger.Component("github")),
	}
}

type repoResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Language      string   `json:"language"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	Topics        []string `json:"topics"`
	URL           string   `json:"url"`
	HTMLURL       string   `json:"html_url"`
	CloneURL      string   `json:"clone_url"`
	DefaultBranch string   `json:"default_branch"`
	Archived      bool     `json:"archived"`
	Disabled      bool     `json:"disabled"`
	Fork          bool     `json:"fork"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type issueResponse struct {
	ID      int64  `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	State   string `json:"state"`
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
	Labels  []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignee *struct {
		Login string `json:"login"`
	} `json:"assignee"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	Comments    int       `json:"comments"`
	UpdatedAt   time.Time `json:"updated_at"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type emailResponse struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

type rateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int   `json:"limit"`
			Remaining int   `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

// GetRepository fetches a repository by owner and name
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*service.RepoSnapshot, error) {
	var repo repoResponse
	resp, err := c.request(ctx, "").
		SetResult(&repo).
		SetPathParams(map[string]string{"owner": owner, "name": name}).
		Get("/repos/{owner}/{name}")
	if err != nil {
		return nil, apperror.TransportError("github", err)
	}

	if appErr := c.checkResponse(resp, fmt.Sprintf("get repository %s/%s", owner, name)); appErr != nil {
		return nil, appErr
	}

	return mapRepo(&repo), nil
}

// GetRepositoryIssues fetches all open issues of a repository across pages.
// Pull requests share the issues endpoint upstream and are filtered out here.
func (c *Client) GetRepositoryIssues(ctx context.Context, owner, name string) ([]*service.IssueSnapshot, error) {
	var issues []*service.IssueSnapshot

	for page := 1; ; page++ {
		var batch []issueResponse
		resp, err := c.request(ctx, "").
			SetResult(&batch).
			SetPathParams(map[string]string{"owner": owner, "name": name}).
			SetQueryParams(map[string]string{
				"state":    "open",
				"per_page": strconv.Itoa(issuesPerPage),
				"page":     strconv.Itoa(page),
			}).
			Get("/repos/{owner}/{name}/issues")
		if err != nil {
			return nil, apperror.TransportError("github", err)
		}

		if appErr := c.checkResponse(resp, fmt.Sprintf("list issues %s/%s", owner, name)); appErr != nil {
			return nil, appErr
		}

		for _, issue := range batch {
			if issue.PullRequest != nil {
				continue
			}
			issues = append(issues, mapIssue(&issue))
		}

		if len(batch) < issuesPerPage {
			break
		}
	}

	return issues, nil
}

// GetAuthenticatedUser fetches the user owning the given OAuth token
func (c *Client) GetAuthenticatedUser(ctx context.Context, token string) (*service.UserSnapshot, error) {
	var user userResponse
	resp, err := c.request(ctx, token).
		SetResult(&user).
		Get("/user")
	if err != nil {
		return nil, apperror.TransportError("github", err)
	}

	if appErr := c.checkResponse(resp, "get authenticated user"); appErr != nil {
		return nil, appErr
	}

	return &service.UserSnapshot{
		GitHubID:  user.ID,
		Username:  user.Login,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
	}, nil
}

// GetPrimaryEmail fetches the user's primary verified email address. Returns
// an empty string when the token lacks the user:email scope.
func (c *Client) GetPrimaryEmail(ctx context.Context, token string) (string, error) {
	var emails []emailResponse
	resp, err := c.request(ctx, token).
		SetResult(&emails).
		Get("/user/emails")
	if err != nil {
		return "", apperror.TransportError("github", err)
	}

	if resp.StatusCode() == 403 || resp.StatusCode() == 404 {
		return "", nil
	}
	if appErr := c.checkResponse(resp, "list user emails"); appErr != nil {
		return "", appErr
	}

	for _, email := range emails {
		if email.Primary && email.Verified {
			return email.Email, nil
		}
	}
	return "", nil
}

// GetUserRepositories fetches the repositories the token's user owns or contributes to
func (c *Client) GetUserRepositories(ctx context.Context, token string) ([]*service.RepoSnapshot, error) {
	var repos []*service.RepoSnapshot

	for page := 1; ; page++ {
		var batch []repoResponse
		resp, err := c.request(ctx, token).
			SetResult(&batch).
			SetQueryParams(map[string]string{
				"per_page":  strconv.Itoa(issuesPerPage),
				"page":      strconv.Itoa(page),
				"sort":      "pushed",
				"direction": "desc",
			}).
			Get("/user/repos")
		if err != nil {
			return nil, apperror.TransportError("github", err)
		}

		if appErr := c.checkResponse(resp, "list user repositories"); appErr != nil {
			return nil, appErr
		}

		for _, repo := range batch {
			repos = append(repos, mapRepo(&repo))
		}

		if len(batch) < issuesPerPage {
			break
		}
	}

	return repos, nil
}

// GetRateLimit fetches the current core API quota
func (c *Client) GetRateLimit(ctx context.Context) (*service.RateLimit, error) {
	var limits rateLimitResponse
	resp, err := c.request(ctx, "").
		SetResult(&limits).
		Get("/rate_limit")
	if err != nil {
		return nil, apperror.TransportError("github", err)
	}

	if appErr := c.checkResponse(resp, "get rate limit"); appErr != nil {
		return nil, appErr
	}

	core := limits.Resources.Core
	return &service.RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		ResetAt:   time.Unix(core.Reset, 0),
	}, nil
}

// request builds a request authenticated with the given token, falling back
// to the app-level token when none is provided
func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)

	if token == "" {
		token = c.token
	}
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// checkResponse maps upstream error responses to the app error taxonomy
func (c *Client) checkResponse(resp *resty.Response, operation string) *apperror.AppError {
	status := resp.StatusCode()
	if status < 400 {
		return nil
	}

	switch {
	case status == 404:
		return apperror.NotFound("github resource", apperror.ErrNotFound)
	case status == 403 && resp.Header().Get("x-ratelimit-remaining") == "0":
		resetAt := ""
		if raw := resp.Header().Get("x-ratelimit-reset"); raw != "" {
			if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
				resetAt = time.Unix(unix, 0).UTC().Format(time.RFC3339)
			}
		}
		c.log.Warn("GitHub rate limit exhausted",
			logger.Operation(operation),
			logger.String("reset_at", resetAt),
		)
		return apperror.RateLimitExceeded(resetAt, nil)
	case status == 401:
		return apperror.Unauthorized("github token rejected", apperror.ErrInvalidCredentials)
	default:
		c.log.Warn("GitHub API error",
			logger.Operation(operation),
			logger.StatusCode(status),
		)
		return apperror.UpstreamError(operation, status, nil)
	}
}

func mapRepo(repo *repoResponse) *service.RepoSnapshot {
	owner := repo.Owner.Login
	return &service.RepoSnapshot{
		GitHubID:      repo.ID,
		Owner:         owner,
		Name:          repo.Name,
		FullName:      repo.FullName,
		Description:   repo.Description,
		Language:      repo.Language,
		Stars:         repo.Stars,
		Forks:         repo.Forks,
		Topics:        repo.Topics,
		URL:           repo.URL,
		HTMLURL:       repo.HTMLURL,
		CloneURL:      repo.CloneURL,
		DefaultBranch: repo.DefaultBranch,
		Archived:      repo.Archived,
		Disabled:      repo.Disabled,
	}
}

func mapIssue(issue *issueResponse) *service.IssueSnapshot {
	snapshot := &service.IssueSnapshot{
		GitHubID:    issue.ID,
		Number:      issue.Number,
		Title:       issue.Title,
		Body:        issue.Body,
		URL:         issue.URL,
		HTMLURL:     issue.HTMLURL,
		State:       issue.State,
		Author:      issue.User.Login,
		Comments:    issue.Comments,
		LastUpdated: issue.UpdatedAt,
	}
	if issue.Assignee != nil {
		snapshot.Assignee = issue.Assignee.Login
	}
	for _, label := range issue.Labels {
		snapshot.Labels = append(snapshot.Labels, label.Name)
	}
	return snapshot
}
