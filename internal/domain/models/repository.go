package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository represents a tracked GitHub repository.
// Identity is the natural key FullName (owner/name); GitHubID is informational.
type Repository struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Owner       string    `json:"owner" gorm:"not null;size:255"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	FullName    string    `json:"fullName" gorm:"uniqueIndex;not null;size:511"`
	Description string    `json:"description"`
	Language    string    `json:"language" gorm:"size:64;index"`
	Stars       int       `json:"stars" gorm:"default:0"`
	Forks       int       `json:"forks" gorm:"default:0"`

	Topics pq.StringArray `json:"topics" gorm:"type:text[]"`

	URL           string `json:"url"`
	HTMLURL       string `json:"htmlUrl"`
	CloneURL      string `json:"cloneUrl"`
	DefaultBranch string `json:"defaultBranch" gorm:"default:'main'"`

	IsArchived bool       `json:"isArchived" gorm:"default:false"`
	IsActive   bool       `json:"isActive" gorm:"default:true"`
	LastSynced *time.Time `json:"lastSynced"`
	GitHubID   int64      `json:"githubId"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Repository
func (Repository) TableName() string {
	return "repositories"
}
