package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a notification
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
	EmailStatusBounced EmailStatus = "bounced"
)

// SentLog records a notification attempt for an (issue, user) pair.
// The pair is unique, which is what makes delivery at-most-once.
type SentLog struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"not null;uniqueIndex:idx_issue_user_sent"`
	IssueID      uuid.UUID `json:"issueId" gorm:"not null;uniqueIndex:idx_issue_user_sent"`
	RepositoryID uuid.UUID `json:"repositoryId" gorm:"not null;index"`

	EmailSent    bool        `json:"emailSent" gorm:"default:false"`
	SentAt       *time.Time  `json:"sentAt"`
	EmailStatus  EmailStatus `json:"emailStatus" gorm:"type:varchar(16);default:'pending'"`
	ErrorMessage string      `json:"errorMessage"`
	RetryCount   int         `json:"retryCount" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for SentLog
func (SentLog) TableName() string {
	return "sent_logs"
}
