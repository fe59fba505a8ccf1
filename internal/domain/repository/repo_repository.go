package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
)

// RepoListFilter narrows and pages repository listings
type RepoListFilter struct {
	Language string
	Search   string
	Sort     string // stars, forks, recent
	Limit    int
	Offset   int
}

// RepoRepository defines the interface for repository catalog data access
type RepoRepository interface {
	// Create creates a new repository record
	Create(ctx context.Context, repo *models.Repository) error

	// Upsert inserts or updates a repository by its full name
	Upsert(ctx context.Context, repo *models.Repository) error

	// FindByID finds a repository by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Repository, error)

	// FindByFullName finds a repository by owner/name
	FindByFullName(ctx context.Context, fullName string) (*models.Repository, error)

	// List lists active repositories matching the filter, returning the total count
	List(ctx context.Context, filter RepoListFilter) ([]*models.Repository, int64, error)

	// DistinctLanguages returns the distinct non-empty languages of active repositories
	DistinctLanguages(ctx context.Context) ([]string, error)
}
