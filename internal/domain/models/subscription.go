package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SubscriptionFrequency controls how often a subscription produces a digest
type SubscriptionFrequency string

const (
	FrequencyDaily  SubscriptionFrequency = "daily"
	FrequencyWeekly SubscriptionFrequency = "weekly"
	FrequencyPaused SubscriptionFrequency = "paused"
)

// IsValid reports whether the frequency is one of the supported values
func (f SubscriptionFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyPaused:
		return true
	}
	return false
}

// SubscriptionPreferences narrows which issues a subscription matches.
// Empty slices mean no filtering on that dimension.
type SubscriptionPreferences struct {
	Languages  pq.StringArray `json:"languages" gorm:"type:text[]"`
	Difficulty pq.StringArray `json:"difficulty" gorm:"type:text[]"`
	Labels     pq.StringArray `json:"labels" gorm:"type:text[]"`
}

// Subscription links a user to a repository they want triage emails for.
// (UserID, RepositoryID) is unique.
type Subscription struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID  `json:"userId" gorm:"not null;uniqueIndex:idx_user_repo_sub"`
	User         User       `json:"-" gorm:"foreignKey:UserID"`
	RepositoryID uuid.UUID  `json:"repositoryId" gorm:"not null;uniqueIndex:idx_user_repo_sub"`
	Repository   Repository `json:"repository,omitzero" gorm:"foreignKey:RepositoryID"`

	Frequency SubscriptionFrequency `json:"frequency" gorm:"type:varchar(16);default:'daily'"`
	IsActive  bool                  `json:"isActive" gorm:"default:true"`

	Preferences SubscriptionPreferences `json:"preferences" gorm:"embedded;embeddedPrefix:pref_"`

	LastSent *time.Time `json:"lastSent"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsMatchable reports whether the subscription can produce matches
func (s *Subscription) IsMatchable() bool {
	return s.IsActive && s.Frequency != FrequencyPaused
}
