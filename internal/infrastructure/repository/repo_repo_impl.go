package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
)

// RepoRepoImpl implements the RepoRepository interface using GORM
type RepoRepoImpl struct {
	db *gorm.DB
}

// NewRepoRepository creates a new instance of RepoRepoImpl
func NewRepoRepository(db *gorm.DB) repository.RepoRepository {
	return &RepoRepoImpl{db: db}
}

// Create creates a new repository in the database
func (r *RepoRepoImpl) Create(ctx context.Context, repo *models.Repository) error {
	if err := r.db.WithContext(ctx).Create(repo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("repository already exists", apperror.ErrRepositoryExists)
		}
		return apperror.DatabaseError("create", err)
	}
	return nil
}

// Upsert inserts or updates a repository keyed on its full name
func (r *RepoRepoImpl) Upsert(ctx context.Context, repo *models.Repository) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "full_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"owner", "name", "description", "language", "stars", "forks",
				"topics", "url", "html_url", "clone_url", "default_branch",
				"is_archived", "is_active", "last_synced", "github_id", "updated_at",
			}),
		}).
		Create(repo).Error
	if err != nil {
		return apperror.DatabaseError("upsert", err)
	}
	return nil
}

// FindByID retrieves a repository by its ID
func (r *RepoRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Repository, error) {
	var repo models.Repository
	err := r.db.WithContext(ctx).First(&repo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &repo, nil
}

// FindByFullName finds a repository by owner/name
func (r *RepoRepoImpl) FindByFullName(ctx context.Context, fullName string) (*models.Repository, error) {
	var repo models.Repository
	err := r.db.WithContext(ctx).
		Where("full_name = ?", fullName).
		First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &repo, nil
}

// List lists active repositories matching the filter with the total count
func (r *RepoRepoImpl) List(ctx context.Context, filter repository.RepoListFilter) ([]*models.Repository, int64, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("is_active = ?", true)

	if filter.Language != "" {
		db = db.Where("LOWER(language) = LOWER(?)", filter.Language)
	}
	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		db = db.Where("full_name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperror.DatabaseError("count", err)
	}

	switch filter.Sort {
	case "forks":
		db = db.Order("forks DESC")
	case "recent":
		db = db.Order("last_synced DESC NULLS LAST")
	default:
		db = db.Order("stars DESC")
	}

	var repos []*models.Repository
	err := db.Order("full_name ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&repos).Error
	if err != nil {
		return nil, 0, apperror.DatabaseError("list", err)
	}
	return repos, total, nil
}

// DistinctLanguages returns the distinct non-empty languages of active repositories
func (r *RepoRepoImpl) DistinctLanguages(ctx context.Context) ([]string, error) {
	var languages []string
	err := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("is_active = ? AND language <> ''", true).
		Distinct("language").
		Order("language ASC").
		Pluck("language", &languages).Error
	if err != nil {
		return nil, apperror.DatabaseError("list", err)
	}
	return languages, nil
}
