package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
)

// IssueRepoImpl implements the IssueRepository interface using GORM
type IssueRepoImpl struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepoImpl instance
func NewIssueRepository(db *gorm.DB) repository.IssueRepository {
	return &IssueRepoImpl{db: db}
}

// Upsert inserts or updates an issue keyed on (repository_id, issue_number).
// The delivery bookkeeping columns are left untouched on update so resyncs
// never erase who was already notified.
func (r *IssueRepoImpl) Upsert(ctx context.Context, issue *models.Issue) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "repository_id"}, {Name: "issue_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "body", "url", "html_url", "labels", "state",
				"assignee", "author", "comments", "difficulty", "github_id",
				"last_updated", "updated_at",
			}),
		}).
		Create(issue).Error
	if err != nil {
		return apperror.DatabaseError("upsert issue", err)
	}
	return nil
}

// FindByID retrieves an issue by its ID
func (r *IssueRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.WithContext(ctx).First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("issue", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find issue", err)
	}
	return &issue, nil
}

// FindByNumber retrieves an issue by repository and issue number
func (r *IssueRepoImpl) FindByNumber(ctx context.Context, repositoryID uuid.UUID, issueNumber int) (*models.Issue, error) {
	var issue models.Issue
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND issue_number = ?", repositoryID, issueNumber).
		First(&issue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("issue", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find issue", err)
	}
	return &issue, nil
}

// FindOpenByRepository returns the open issues of a repository, most recently
// updated first with the issue number as a stable tiebreak
func (r *IssueRepoImpl) FindOpenByRepository(ctx context.Context, repositoryID uuid.UUID) ([]*models.Issue, error) {
	var issues []*models.Issue
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND state = ?", repositoryID, models.IssueStateOpen).
		Order("last_updated DESC").
		Order("issue_number ASC").
		Find(&issues).Error
	if err != nil {
		return nil, apperror.DatabaseError("list issues", err)
	}
	return issues, nil
}

// List lists open issues of a repository matching the filter with the total count
func (r *IssueRepoImpl) List(ctx context.Context, repositoryID uuid.UUID, filter repository.IssueListFilter) ([]*models.Issue, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("repository_id = ? AND state = ?", repositoryID, models.IssueStateOpen)

	if filter.Difficulty != "" {
		db = db.Where("difficulty = ?", filter.Difficulty)
	}
	if len(filter.Labels) > 0 {
		db = db.Where("labels && ?", pq.StringArray(filter.Labels))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperror.DatabaseError("count issues", err)
	}

	var issues []*models.Issue
	err := db.Order("last_updated DESC").
		Order("issue_number ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&issues).Error
	if err != nil {
		return nil, 0, apperror.DatabaseError("list issues", err)
	}
	return issues, total, nil
}

// DistinctLabels returns the distinct labels across a repository's open issues
func (r *IssueRepoImpl) DistinctLabels(ctx context.Context, repositoryID uuid.UUID) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT unnest(labels) AS label
		     FROM issues
		     WHERE repository_id = ? AND state = ?
		     ORDER BY label ASC`, repositoryID, models.IssueStateOpen).
		Scan(&labels).Error
	if err != nil {
		return nil, apperror.DatabaseError("list labels", err)
	}
	return labels, nil
}

// CountByDifficulty returns open issue counts per difficulty level
func (r *IssueRepoImpl) CountByDifficulty(ctx context.Context, repositoryID uuid.UUID) (map[models.Difficulty]int64, error) {
	type row struct {
		Difficulty models.Difficulty
		Count      int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Select("difficulty, COUNT(*) AS count").
		Where("repository_id = ? AND state = ?", repositoryID, models.IssueStateOpen).
		Group("difficulty").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.DatabaseError("count issues", err)
	}

	counts := make(map[models.Difficulty]int64, len(rows))
	for _, r := range rows {
		counts[r.Difficulty] = r.Count
	}
	return counts, nil
}

// AppendLastSentTo records that a user was notified about an issue
func (r *IssueRepoImpl) AppendLastSentTo(ctx context.Context, issueID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ? AND (last_sent_to IS NULL OR NOT (? = ANY(last_sent_to)))", issueID, userID.String()).
		Update("last_sent_to", gorm.Expr("array_append(COALESCE(last_sent_to, '{}'), ?)", userID.String()))
	if result.Error != nil {
		return apperror.DatabaseError("update issue", result.Error)
	}
	return nil
}
