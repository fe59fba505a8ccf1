package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

const (
	dailyInterval  = 24 * time.Hour
	weeklyInterval = 7 * 24 * time.Hour
)

// DigestStats summarizes one digest run
type DigestStats struct {
	Subscriptions int
	Due           int
	Sent          int
	Skipped       int
	Failed        int
}

// DigestService walks active subscriptions and delivers due issue digests
type DigestService struct {
	subRepo     repository.SubscriptionRepository
	issueRepo   repository.IssueRepository
	sentLogRepo repository.SentLogRepository
	dispatch    *DispatchService
	log         *logger.Logger
}

// NewDigestService creates a new DigestService instance
func NewDigestService(
	subRepo repository.SubscriptionRepository,
	issueRepo repository.IssueRepository,
	sentLogRepo repository.SentLogRepository,
	dispatch *DispatchService,
) *DigestService {
	return &DigestService{
		subRepo:     subRepo,
		issueRepo:   issueRepo,
		sentLogRepo: sentLogRepo,
		dispatch:    dispatch,
		log:         logger.Get().WithFields(logger.Component("digest")),
	}
}

// RunDigest processes every active subscription once. Subscriptions that are
// not due yet, paused, or whose user disabled email are skipped. Failures on
// one subscription never abort the run.
func (s *DigestService) RunDigest(ctx context.Context) (*DigestStats, error) {
	subs, err := s.subRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DigestStats{Subscriptions: len(subs)}
	now := time.Now()

	for _, sub := range subs {
		if !sub.User.WantsEmail() {
			continue
		}
		if !isDue(sub, now) {
			continue
		}
		stats.Due++

		if err := s.processSubscription(ctx, sub, stats); err != nil {
			stats.Failed++
			s.log.Warn("Digest failed for subscription",
				logger.Error(err),
				logger.SubscriptionID(sub.ID.String()),
				logger.Repository(sub.Repository.FullName),
			)
		}
	}

	s.log.Info("Digest run completed",
		logger.Int("subscriptions", stats.Subscriptions),
		logger.Int("due", stats.Due),
		logger.Int("sent", stats.Sent),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed),
	)
	return stats, nil
}

// processSubscription matches and dispatches issues for one subscription
func (s *DigestService) processSubscription(ctx context.Context, sub *models.Subscription, stats *DigestStats) error {
	issues, err := s.issueRepo.FindOpenByRepository(ctx, sub.RepositoryID)
	if err != nil {
		return err
	}
	if len(issues) == 0 {
		return nil
	}

	alreadySent, err := s.sentLogRepo.SentIssueIDs(ctx, sub.UserID)
	if err != nil {
		return err
	}

	matched, err := MatchIssues(sub, &sub.User, issues, MatchFlags{
		LinkedPR:    map[uuid.UUID]bool{},
		AlreadySent: alreadySent,
	})
	if err != nil {
		// A paused or deactivated subscription slipping through is a skip,
		// not a run failure
		if apperror.IsInvalidSubscription(err) {
			return nil
		}
		return err
	}
	if len(matched) == 0 {
		return nil
	}

	result, err := s.dispatch.DispatchBatch(ctx, sub, &sub.User, matched)
	if err != nil {
		return err
	}

	stats.Sent += result.Sent
	stats.Skipped += result.Skipped
	stats.Failed += result.Failed
	return nil
}

// isDue reports whether a subscription should receive a digest now
func isDue(sub *models.Subscription, now time.Time) bool {
	if !sub.IsMatchable() {
		return false
	}
	if sub.LastSent == nil {
		return true
	}

	switch sub.Frequency {
	case models.FrequencyWeekly:
		return now.Sub(*sub.LastSent) >= weeklyInterval
	default:
		return now.Sub(*sub.LastSent) >= dailyInterval
	}
}
