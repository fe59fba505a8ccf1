package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

const excerptLength = 500

// DispatchResult summarizes one dispatch batch
type DispatchResult struct {
	Sent    int
	Skipped int
	Failed  int
}

// DispatchService delivers matched issues to a subscriber. Each delivery is
// recorded in the sent log before the email leaves, and the unique
// (issue, user) index makes delivery at-most-once even across concurrent
// digest runs.
type DispatchService struct {
	sentLogRepo repository.SentLogRepository
	issueRepo   repository.IssueRepository
	subRepo     repository.SubscriptionRepository
	mailer      service.MailService
	log         *logger.Logger
}

// NewDispatchService creates a new DispatchService instance
func NewDispatchService(
	sentLogRepo repository.SentLogRepository,
	issueRepo repository.IssueRepository,
	subRepo repository.SubscriptionRepository,
	mailer service.MailService,
) *DispatchService {
	return &DispatchService{
		sentLogRepo: sentLogRepo,
		issueRepo:   issueRepo,
		subRepo:     subRepo,
		mailer:      mailer,
		log:         logger.Get().WithFields(logger.Component("dispatch")),
	}
}

// DispatchBatch sends one email per matched issue to the subscription's user.
// A failed delivery is recorded and the batch continues with the next issue.
func (s *DispatchService) DispatchBatch(ctx context.Context, sub *models.Subscription, user *models.User, issues []*models.Issue) (*DispatchResult, error) {
	result := &DispatchResult{}

	for _, issue := range issues {
		switch err := s.dispatchOne(ctx, sub, user, issue); {
		case err == nil:
			result.Sent++
		case apperror.IsConflict(err):
			// Another worker recorded this delivery first
			result.Skipped++
		default:
			result.Failed++
			s.log.Warn("Issue delivery failed",
				logger.Error(err),
				logger.Repository(sub.Repository.FullName),
				logger.IssueNumber(issue.IssueNumber),
				logger.UserID(user.ID.String()),
			)
		}
	}

	if result.Sent > 0 {
		if err := s.subRepo.UpdateLastSent(ctx, sub.ID); err != nil {
			s.log.Warn("Failed to update subscription last sent",
				logger.Error(err),
				logger.SubscriptionID(sub.ID.String()),
			)
		}
	}

	return result, nil
}

// dispatchOne records and sends a single issue notification
func (s *DispatchService) dispatchOne(ctx context.Context, sub *models.Subscription, user *models.User, issue *models.Issue) error {
	existing, err := s.sentLogRepo.FindByIssueAndUser(ctx, issue.ID, user.ID)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if existing != nil && existing.EmailSent {
		return apperror.Conflict("notification already sent", apperror.ErrAlreadySent)
	}

	entry := existing
	if entry == nil {
		entry = &models.SentLog{
			UserID:       user.ID,
			IssueID:      issue.ID,
			RepositoryID: issue.RepositoryID,
			EmailStatus:  models.EmailStatusPending,
		}
		if err := s.sentLogRepo.Create(ctx, entry); err != nil {
			// Conflict means a concurrent dispatcher inserted the row first
			return err
		}
	}

	msg := buildIssueMessage(&sub.Repository, issue, user)
	if _, err := s.mailer.Send(ctx, msg); err != nil {
		entry.EmailStatus = models.EmailStatusFailed
		entry.ErrorMessage = err.Error()
		entry.RetryCount++
		if updateErr := s.sentLogRepo.Update(ctx, entry); updateErr != nil {
			s.log.Error("Failed to record delivery failure",
				logger.Error(updateErr),
				logger.IssueNumber(issue.IssueNumber),
			)
		}
		return err
	}

	now := time.Now()
	entry.EmailSent = true
	entry.EmailStatus = models.EmailStatusSent
	entry.SentAt = &now
	entry.ErrorMessage = ""
	if err := s.sentLogRepo.Update(ctx, entry); err != nil {
		return err
	}

	if err := s.issueRepo.AppendLastSentTo(ctx, issue.ID, user.ID); err != nil {
		s.log.Warn("Failed to record issue recipient",
			logger.Error(err),
			logger.IssueNumber(issue.IssueNumber),
		)
	}

	s.log.Debug("Issue notification sent",
		logger.Repository(sub.Repository.FullName),
		logger.IssueNumber(issue.IssueNumber),
		logger.UserID(user.ID.String()),
	)
	return nil
}

var difficultyEmoji = map[models.Difficulty]string{
	models.DifficultyBeginner:     "🟢",
	models.DifficultyIntermediate: "🟡",
	models.DifficultyAdvanced:     "🔴",
	models.DifficultyUnknown:      "⚪",
}

// buildIssueMessage renders the notification email for one issue
func buildIssueMessage(repo *models.Repository, issue *models.Issue, user *models.User) *service.Message {
	subject := fmt.Sprintf("[%s] %s", repo.FullName, issue.Title)
	excerpt := excerptBody(issue.Body)
	emoji := difficultyEmoji[issue.Difficulty]

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", user.Username)
	fmt.Fprintf(&text, "An issue in %s could use your help:\n\n", repo.FullName)
	fmt.Fprintf(&text, "#%d %s\n", issue.IssueNumber, issue.Title)
	fmt.Fprintf(&text, "%s Difficulty: %s\n", emoji, issue.Difficulty)
	if len(issue.Labels) > 0 {
		fmt.Fprintf(&text, "Labels: %s\n", strings.Join(issue.Labels, ", "))
	}
	if excerpt != "" {
		fmt.Fprintf(&text, "\n%s\n", excerpt)
	}
	fmt.Fprintf(&text, "\n%s\n", issue.HTMLURL)

	var markup strings.Builder
	fmt.Fprintf(&markup, "<p>Hi %s,</p>", html.EscapeString(user.Username))
	fmt.Fprintf(&markup, "<p>An issue in <strong>%s</strong> could use your help:</p>", html.EscapeString(repo.FullName))
	fmt.Fprintf(&markup, "<h3><a href=%q>#%d %s</a></h3>", issue.HTMLURL, issue.IssueNumber, html.EscapeString(issue.Title))
	fmt.Fprintf(&markup, "<p>%s Difficulty: <strong>%s</strong></p>", emoji, issue.Difficulty)
	if len(issue.Labels) > 0 {
		fmt.Fprintf(&markup, "<p>Labels: %s</p>", html.EscapeString(strings.Join(issue.Labels, ", ")))
	}
	if excerpt != "" {
		fmt.Fprintf(&markup, "<blockquote>%s</blockquote>", html.EscapeString(excerpt))
	}

	return &service.Message{
		To:       user.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: markup.String(),
	}
}

// excerptBody truncates an issue body for email display. The cut never
// splits a multi-byte rune.
func excerptBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= excerptLength {
		return body
	}
	cut := excerptLength
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
