package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
)

// SentLogRepository defines the interface for notification bookkeeping
type SentLogRepository interface {
	// Create inserts a new log entry; a duplicate (issue, user) pair yields a Conflict error
	Create(ctx context.Context, entry *models.SentLog) error

	// FindByIssueAndUser finds the log entry for an (issue, user) pair
	FindByIssueAndUser(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error)

	// Update updates a log entry
	Update(ctx context.Context, entry *models.SentLog) error

	// SentIssueIDs returns the IDs of issues already delivered to the user
	SentIssueIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}
