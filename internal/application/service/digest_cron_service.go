package service

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/pkg/logger"
)

// DigestCronService runs the digest on a schedule
type DigestCronService struct {
	digest   *DigestService
	interval time.Duration
	schedule string
	lastRun  *time.Time
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
	log      *logger.Logger
}

// NewDigestCronService creates a new digest cron service
func NewDigestCronService(digest *DigestService, cfg *config.DigestConfig) *DigestCronService {
	interval := cfg.Interval
	if interval == 0 {
		interval = 1 * time.Hour
	}

	return &DigestCronService{
		digest:   digest,
		interval: interval,
		schedule: cfg.Schedule,
		stopChan: make(chan struct{}),
		log:      logger.Get().WithFields(logger.Component("digest_cron")),
	}
}

// Start starts the cron scheduler
func (s *DigestCronService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("Digest cron service already running")
		return
	}

	s.running = true
	s.wg.Add(1)

	go s.run()

	s.log.Info("Digest cron service started",
		logger.String("interval", s.interval.String()),
		logger.String("schedule", s.schedule),
	)
}

// Stop stops the cron scheduler
func (s *DigestCronService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.log.Warn("Digest cron service not running")
		return
	}

	s.log.Info("Stopping digest cron service")
	close(s.stopChan)
	s.running = false

	s.wg.Wait()

	s.log.Info("Digest cron service stopped")
}

// IsRunning returns whether the cron service is running
func (s *DigestCronService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run is the main loop for the cron scheduler
func (s *DigestCronService) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runDigest()

	for {
		select {
		case <-ticker.C:
			s.runDigest()
		case <-s.stopChan:
			s.log.Info("Digest cron scheduler received stop signal")
			return
		}
	}
}

// runDigest performs one digest run when the schedule allows it
func (s *DigestCronService) runDigest() {
	now := time.Now()
	if !s.isRunDue(now) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.log.Info("Starting scheduled digest run")

	if _, err := s.digest.RunDigest(ctx); err != nil {
		s.log.Error("Digest run failed",
			logger.Error(err),
		)
	}

	s.mu.Lock()
	s.lastRun = &now
	s.mu.Unlock()
}

// isRunDue gates ticker fires against the optional cron schedule. With no
// schedule configured every tick is due.
func (s *DigestCronService) isRunDue(now time.Time) bool {
	s.mu.Lock()
	lastRun := s.lastRun
	s.mu.Unlock()

	if s.schedule == "" || lastRun == nil {
		return true
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(s.schedule)
	if err != nil {
		s.log.Warn("Failed to parse digest schedule, running on interval",
			logger.Error(err),
			logger.String("schedule", s.schedule),
		)
		return true
	}

	next := schedule.Next(*lastRun)
	return now.After(next) || now.Equal(next)
}
