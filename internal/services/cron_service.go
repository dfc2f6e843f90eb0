package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/database"
)

const purgeTimeout = time.Minute

// CronService manages scheduled background jobs
type CronService struct {
	cron          *cron.Cron
	sessions      *database.SessionRepository
	purgeSchedule string
	logger        *logrus.Logger
	now           func() time.Time
}

// NewCronService creates a new CronService. Schedules use the six-field
// format with seconds.
func NewCronService(sessions *database.SessionRepository, purgeSchedule string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:          cron.New(cron.WithSeconds()),
		sessions:      sessions,
		purgeSchedule: purgeSchedule,
		logger:        logger,
		now:           time.Now,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.purgeSchedule, s.purgeSessionsJob); err != nil {
		return fmt.Errorf("failed to schedule session purge job: %w", err)
	}
	s.logger.WithField("schedule", s.purgeSchedule).Info("Scheduled: purge expired and revoked sessions")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// PurgeSessions deletes sessions that can no longer authenticate
func (s *CronService) PurgeSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteInactive(ctx, s.now())
}

func (s *CronService) purgeSessionsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	startTime := time.Now()
	deleted, err := s.PurgeSessions(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Session purge failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"deleted":  deleted,
		"duration": time.Since(startTime).String(),
	}).Info("Session purge completed")
}

// JobCount is the number of scheduled jobs
func (s *CronService) JobCount() int {
	return len(s.cron.Entries())
}
