package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/service"
)

// Scheduler manages the recurring ingest and pick-sheet jobs.
type Scheduler struct {
	cron         *cron.Cron
	ingestionSvc *service.IngestionService
	edgeSvc      *service.EdgeService
	logger       *logrus.Logger
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(ingestionSvc *service.IngestionService, edgeSvc *service.EdgeService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc: ingestionSvc,
		edgeSvc:      edgeSvc,
		logger:       logger,
		jobIDs:       make([]cron.EntryID, 0),
	}
}

// CurrentSeason returns the season a given time falls in. The season runs
// September through February, so January and February belong to the previous
// calendar year's season.
func CurrentSeason(now time.Time) int {
	if now.Month() < time.August {
		return now.Year() - 1
	}
	return now.Year()
}

// ScheduleIngest schedules the full ingest run: schedules from the first
// configured season through the current one, then the current odds board.
func (s *Scheduler) ScheduleIngest(cronExpression string, firstSeason int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		season := CurrentSeason(time.Now().UTC())
		s.logger.WithFields(logrus.Fields{
			"first_season": firstSeason,
			"last_season":  season,
		}).Info("Starting scheduled ingest")

		result, err := s.ingestionSvc.IngestSeasons(ctx, firstSeason, season)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled schedule ingest failed")
			return
		}
		s.logger.WithField("result", result.String()).Info("Scheduled schedule ingest completed")

		if _, err := s.ingestionSvc.IngestOdds(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled odds ingest failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add ingest job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled ingest job")

	return nil
}

// ScheduleSheetRefresh schedules pick-sheet regeneration over every unplayed
// game of the current season.
func (s *Scheduler) ScheduleSheetRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if s.edgeSvc == nil {
		return fmt.Errorf("edge service is required for sheet refresh")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		season := CurrentSeason(time.Now().UTC())
		sheet, err := s.edgeSvc.RefreshSheet(ctx, season, 0)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled sheet refresh failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"season": season,
			"picks":  len(sheet),
		}).Info("Scheduled sheet refresh completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add sheet refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled sheet refresh job")

	return nil
}

// ScheduleOddsPolling schedules standalone odds board polling between full
// ingest runs. Intervals under a minute are clamped; the board barely moves
// faster than that and API quotas are metered.
func (s *Scheduler) ScheduleOddsPolling(intervalSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 60 {
		intervalSeconds = 60
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if _, err := s.ingestionSvc.IngestOdds(ctx); err != nil {
			s.logger.WithError(err).Error("Odds polling failed")
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add odds polling job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled odds polling job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
