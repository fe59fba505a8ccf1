package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Difficulty is the classified difficulty level of an issue
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyUnknown      Difficulty = "unknown"
)

// IssueState is the open/closed state of an issue
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)

// Issue represents a GitHub issue mirrored into the catalog.
// (RepositoryID, IssueNumber) is the natural key.
type Issue struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RepositoryID uuid.UUID  `json:"repositoryId" gorm:"not null;uniqueIndex:idx_repo_issue_number"`
	Repository   Repository `json:"-" gorm:"foreignKey:RepositoryID"`
	IssueNumber  int        `json:"issueNumber" gorm:"not null;uniqueIndex:idx_repo_issue_number"`

	Title   string `json:"title" gorm:"not null"`
	Body    string `json:"body"`
	URL     string `json:"url"`
	HTMLURL string `json:"htmlUrl"`

	Labels   pq.StringArray `json:"labels" gorm:"type:text[]"`
	State    IssueState     `json:"state" gorm:"type:varchar(16);default:'open';index"`
	Assignee string         `json:"assignee" gorm:"size:255"`
	Author   string         `json:"author" gorm:"size:255"`
	Comments int            `json:"comments" gorm:"default:0"`

	// Difficulty is derived from labels and recomputed on every upsert
	Difficulty Difficulty `json:"difficulty" gorm:"type:varchar(16);default:'unknown';index"`

	GitHubID int64 `json:"githubId"`
	// LastSentTo holds IDs of users already notified about this issue
	LastSentTo  pq.StringArray `json:"lastSentTo" gorm:"type:text[]"`
	LastUpdated time.Time      `json:"lastUpdated" gorm:"index"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "issues"
}

// WasSentTo reports whether the user already received this issue
func (i *Issue) WasSentTo(userID uuid.UUID) bool {
	id := userID.String()
	for _, sent := range i.LastSentTo {
		if sent == id {
			return true
		}
	}
	return false
}
