package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/provat/codetriage/internal/config"
)

func TestIsRunDue(t *testing.T) {
	lastRun := time.Date(2026, 8, 29, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedule string
		lastRun  *time.Time
		now      time.Time
		want     bool
	}{
		{"no schedule", "", &lastRun, lastRun.Add(time.Minute), true},
		{"never ran", "0 8 * * *", nil, lastRun, true},
		{"before scheduled time", "0 8 * * *", &lastRun, lastRun.Add(10 * time.Minute), false},
		{"at scheduled time", "0 8 * * *", &lastRun, time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC), true},
		{"after scheduled time", "0 8 * * *", &lastRun, time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC), true},
		{"unparseable schedule falls back to interval", "not a cron", &lastRun, lastRun.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDigestCronService(nil, &config.DigestConfig{Schedule: tt.schedule})
			svc.lastRun = tt.lastRun
			assert.Equal(t, tt.want, svc.isRunDue(tt.now))
		})
	}
}

func TestDigestCronStartStop(t *testing.T) {
	subs := &fakeSubscriptionRepo{}
	digest := digestService(subs, &fakeIssueRepo{}, &fakeSentLogRepo{}, &fakeMailer{})
	svc := NewDigestCronService(digest, &config.DigestConfig{Interval: time.Hour})

	assert.False(t, svc.IsRunning())

	svc.Start()
	assert.True(t, svc.IsRunning())

	svc.Stop()
	assert.False(t, svc.IsRunning())
}
