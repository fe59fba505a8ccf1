package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
)

// IssueListFilter narrows and pages issue listings for one repository
type IssueListFilter struct {
	Difficulty string
	Labels     []string
	Limit      int
	Offset     int
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Upsert inserts or updates an issue by (repositoryId, issueNumber)
	Upsert(ctx context.Context, issue *models.Issue) error

	// FindByID finds an issue by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Issue, error)

	// FindByNumber finds an issue by repository and issue number
	FindByNumber(ctx context.Context, repositoryID uuid.UUID, issueNumber int) (*models.Issue, error)

	// FindOpenByRepository returns all open issues of a repository,
	// ordered by lastUpdated desc with issueNumber asc as tiebreak
	FindOpenByRepository(ctx context.Context, repositoryID uuid.UUID) ([]*models.Issue, error)

	// List lists open issues matching the filter, returning the total count
	List(ctx context.Context, repositoryID uuid.UUID, filter IssueListFilter) ([]*models.Issue, int64, error)

	// DistinctLabels returns the distinct labels across a repository's open issues
	DistinctLabels(ctx context.Context, repositoryID uuid.UUID) ([]string, error)

	// CountByDifficulty returns open issue counts per difficulty level
	CountByDifficulty(ctx context.Context, repositoryID uuid.UUID) (map[models.Difficulty]int64, error)

	// AppendLastSentTo records that a user was notified about an issue
	AppendLastSentTo(ctx context.Context, issueID, userID uuid.UUID) error
}
