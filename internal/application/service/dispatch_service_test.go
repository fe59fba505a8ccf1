package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
)

func dispatchFixture() (*models.Subscription, *models.User, *models.Issue) {
	repoID := uuid.New()
	user := testUser()
	sub := testSubscription(repoID)
	sub.UserID = user.ID
	sub.Repository.FullName = "golang/go"
	issue := openIssue(repoID, 42, time.Now())
	issue.Title = "flaky test on windows"
	issue.HTMLURL = "https://github.com/golang/go/issues/42"
	return sub, user, issue
}

func TestDispatchBatchSendsAndRecords(t *testing.T) {
	sub, user, issue := dispatchFixture()

	var created *models.SentLog
	var updated *models.SentLog
	sentLogs := &fakeSentLogRepo{
		findByIssueAndUserFn: func(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
			return nil, apperror.NotFound("sent log", apperror.ErrNotFound)
		},
		createFn: func(ctx context.Context, entry *models.SentLog) error {
			created = entry
			return nil
		},
		updateFn: func(ctx context.Context, entry *models.SentLog) error {
			updated = entry
			return nil
		},
	}

	var appended []uuid.UUID
	issues := &fakeIssueRepo{
		appendLastSentToFn: func(ctx context.Context, issueID, userID uuid.UUID) error {
			appended = append(appended, issueID)
			return nil
		},
	}

	lastSentUpdated := false
	subs := &fakeSubscriptionRepo{
		updateLastSentFn: func(ctx context.Context, id uuid.UUID) error {
			lastSentUpdated = true
			return nil
		},
	}

	var sent []*service.Message
	mailer := &fakeMailer{
		sendFn: func(ctx context.Context, msg *service.Message) (string, error) {
			sent = append(sent, msg)
			return "msg-1", nil
		},
	}

	svc := NewDispatchService(sentLogs, issues, subs, mailer)
	result, err := svc.DispatchBatch(context.Background(), sub, user, []*models.Issue{issue})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)

	require.NotNil(t, created)
	assert.Equal(t, issue.ID, created.IssueID)
	assert.Equal(t, user.ID, created.UserID)

	require.NotNil(t, updated)
	assert.True(t, updated.EmailSent)
	assert.Equal(t, models.EmailStatusSent, updated.EmailStatus)
	assert.NotNil(t, updated.SentAt)

	require.Len(t, sent, 1)
	assert.Equal(t, user.Email, sent[0].To)
	assert.Equal(t, "[golang/go] flaky test on windows", sent[0].Subject)

	assert.Equal(t, []uuid.UUID{issue.ID}, appended)
	assert.True(t, lastSentUpdated)
}

func TestDispatchBatchSkipsAlreadySent(t *testing.T) {
	sub, user, issue := dispatchFixture()

	sentAt := time.Now()
	sentLogs := &fakeSentLogRepo{
		findByIssueAndUserFn: func(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
			return &models.SentLog{
				IssueID:     issueID,
				UserID:      userID,
				EmailSent:   true,
				EmailStatus: models.EmailStatusSent,
				SentAt:      &sentAt,
			}, nil
		},
	}

	mailer := &fakeMailer{
		sendFn: func(ctx context.Context, msg *service.Message) (string, error) {
			t.Fatal("mailer should not be called for an already delivered issue")
			return "", nil
		},
	}

	lastSentUpdated := false
	subs := &fakeSubscriptionRepo{
		updateLastSentFn: func(ctx context.Context, id uuid.UUID) error {
			lastSentUpdated = true
			return nil
		},
	}

	svc := NewDispatchService(sentLogs, &fakeIssueRepo{}, subs, mailer)
	result, err := svc.DispatchBatch(context.Background(), sub, user, []*models.Issue{issue})
	require.NoError(t, err)

	assert.Zero(t, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.False(t, lastSentUpdated, "lastSent must not move when nothing was sent")
}

func TestDispatchBatchConcurrentInsertIsSkip(t *testing.T) {
	sub, user, issue := dispatchFixture()

	sentLogs := &fakeSentLogRepo{
		findByIssueAndUserFn: func(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
			return nil, apperror.NotFound("sent log", apperror.ErrNotFound)
		},
		createFn: func(ctx context.Context, entry *models.SentLog) error {
			return apperror.Conflict("notification already sent", apperror.ErrAlreadySent)
		},
	}

	svc := NewDispatchService(sentLogs, &fakeIssueRepo{}, &fakeSubscriptionRepo{}, &fakeMailer{})
	result, err := svc.DispatchBatch(context.Background(), sub, user, []*models.Issue{issue})
	require.NoError(t, err)

	assert.Zero(t, result.Sent)
	assert.Equal(t, 1, result.Skipped)
}

func TestDispatchBatchFailureContinues(t *testing.T) {
	sub, user, _ := dispatchFixture()
	bad := openIssue(sub.RepositoryID, 1, time.Now())
	good := openIssue(sub.RepositoryID, 2, time.Now())

	var failedEntry *models.SentLog
	sentLogs := &fakeSentLogRepo{
		findByIssueAndUserFn: func(ctx context.Context, issueID, userID uuid.UUID) (*models.SentLog, error) {
			return nil, apperror.NotFound("sent log", apperror.ErrNotFound)
		},
		updateFn: func(ctx context.Context, entry *models.SentLog) error {
			if entry.EmailStatus == models.EmailStatusFailed {
				failedEntry = entry
			}
			return nil
		},
	}

	smtpDown := errors.New("smtp connection refused")
	mailer := &fakeMailer{
		sendFn: func(ctx context.Context, msg *service.Message) (string, error) {
			if strings.Contains(msg.Subject, "#1") || strings.Contains(msg.TextBody, "#1 ") {
				return "", smtpDown
			}
			return "msg-ok", nil
		},
	}

	svc := NewDispatchService(sentLogs, &fakeIssueRepo{}, &fakeSubscriptionRepo{}, mailer)
	result, err := svc.DispatchBatch(context.Background(), sub, user, []*models.Issue{bad, good})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)

	require.NotNil(t, failedEntry)
	assert.Equal(t, models.EmailStatusFailed, failedEntry.EmailStatus)
	assert.Equal(t, smtpDown.Error(), failedEntry.ErrorMessage)
	assert.Equal(t, 1, failedEntry.RetryCount)
}

func TestBuildIssueMessageExcerpt(t *testing.T) {
	sub, user, issue := dispatchFixture()
	issue.Body = strings.Repeat("a", 600)

	msg := buildIssueMessage(&sub.Repository, issue, user)

	assert.Contains(t, msg.TextBody, strings.Repeat("a", excerptLength)+"...")
	assert.NotContains(t, msg.TextBody, strings.Repeat("a", excerptLength+1))
}

func TestExcerptBodyKeepsRunesIntact(t *testing.T) {
	// The rune straddles the cut offset
	body := strings.Repeat("a", excerptLength-1) + "étendue de la description"

	excerpt := excerptBody(body)

	assert.True(t, utf8.ValidString(excerpt))
	assert.Equal(t, strings.Repeat("a", excerptLength-1)+"...", excerpt)

	// A body of multi-byte runes stays valid too
	excerpt = excerptBody(strings.Repeat("é", excerptLength))
	assert.True(t, utf8.ValidString(excerpt))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestBuildIssueMessageEscapesHTML(t *testing.T) {
	sub, user, issue := dispatchFixture()
	issue.Title = `<script>alert("x")</script>`

	msg := buildIssueMessage(&sub.Repository, issue, user)

	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
	assert.Equal(t, fmt.Sprintf("[%s] %s", sub.Repository.FullName, issue.Title), msg.Subject)
}
