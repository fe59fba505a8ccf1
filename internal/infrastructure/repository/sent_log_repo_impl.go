package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
)

// Postgres unique violation
const uniqueViolationCode = "23505"

// SentLogRepoImpl implements the SentLogRepository interface using GORM
type SentLogRepoImpl struct {
	db *gorm.DB
}

// NewSentLogRepository creates a new SentLogRepoImpl instance
func NewSentLogRepository(db *gorm.DB) repository.SentLogRepository {
	return &SentLogRepoImpl{db: db}
}

// Create inserts a new log entry. The unique (issue, user) index is the
// at-most-once guarantee, so a duplicate insert surfaces as a Conflict that
// callers treat as "another worker got here first".
func (r *SentLogRepoImpl) Create(ctx context.Context, entry *models.SentLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return apperror.Conflict("notification already recorded", apperror.ErrAlreadySent)
		}
		return apperror.DatabaseError("create sent log", err)
	}
	return nil
}

// FindByIssueAndUser retrieves the log entry for an (issue, user) pair
func (r *SentLogRepoImpl) FindByIssueAndUser(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
	var entry models.SentLog
	err := r.db.WithContext(ctx).
		Where("issue_id = ? AND user_id = ?", issueID, userID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("sent log", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find sent log", err)
	}
	return &entry, nil
}

// Update updates a log entry
func (r *SentLogRepoImpl) Update(ctx context.Context, entry *models.SentLog) error {
	result := r.db.WithContext(ctx).Save(entry)
	if result.Error != nil {
		return apperror.DatabaseError("update sent log", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("sent log", apperror.ErrNotFound)
	}
	return nil
}

// SentIssueIDs returns the IDs of issues successfully delivered to the user
func (r *SentLogRepoImpl) SentIssueIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.SentLog{}).
		Where("user_id = ? AND email_status = ?", userID, models.EmailStatusSent).
		Pluck("issue_id", &ids).Error
	if err != nil {
		return nil, apperror.DatabaseError("list sent logs", err)
	}

	sent := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		sent[id] = true
	}
	return sent, nil
}

// isUniqueViolation reports whether err is a raw Postgres unique violation
// that the driver's error translation did not already map
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
