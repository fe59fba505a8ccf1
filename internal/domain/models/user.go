package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EmailFrequency controls how often a user receives digest emails
type EmailFrequency string

const (
	EmailFrequencyDaily  EmailFrequency = "daily"
	EmailFrequencyWeekly EmailFrequency = "weekly"
	EmailFrequencyOff    EmailFrequency = "off"
)

// IsValid reports whether the frequency is one of the supported values
func (f EmailFrequency) IsValid() bool {
	switch f {
	case EmailFrequencyDaily, EmailFrequencyWeekly, EmailFrequencyOff:
		return true
	}
	return false
}

// User represents a GitHub-authenticated user
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GitHubID  int64     `json:"githubId" gorm:"uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"not null;size:255"`
	Email     string    `json:"email" gorm:"size:255"`
	AvatarURL string    `json:"avatarUrl"`
	// AccessTokenHash is a bcrypt digest of the GitHub OAuth token.
	// The plaintext token is never persisted or logged.
	AccessTokenHash string `json:"-" gorm:"size:255"`
	IsPublic        bool   `json:"isPublic" gorm:"default:true"`

	EmailFrequency    EmailFrequency `json:"emailFrequency" gorm:"type:varchar(16);default:'daily'"`
	EmailTimeOfDay    string         `json:"emailTimeOfDay" gorm:"size:32;default:'not_set'"`
	MaxIssuesPerDay   int            `json:"maxIssuesPerDay" gorm:"default:50"`
	SkipIssuesWithPR  bool           `json:"skipIssuesWithPR" gorm:"default:false"`
	FavoriteLanguages pq.StringArray `json:"favoriteLanguages" gorm:"type:text[]"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// WantsEmail reports whether digest emails are enabled for the user
func (u *User) WantsEmail() bool {
	return u.Email != "" && u.EmailFrequency != EmailFrequencyOff
}
