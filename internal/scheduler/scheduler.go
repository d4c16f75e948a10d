package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/prop-insight/internal/service"
)

const (
	statSyncLookbackDays  = 7
	scheduleLookaheadDays = 7
)

// Scheduler manages recurring stat sync, line sync, grading and trend jobs
type Scheduler struct {
	cron            *cron.Cron
	ingestionSvc    *service.IngestionService
	lineSyncSvc     *service.LineSyncService
	gradingSvc      *service.GradingService
	trendSvc        *service.TrendService
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(
	ingestionSvc *service.IngestionService,
	lineSyncSvc *service.LineSyncService,
	gradingSvc *service.GradingService,
	trendSvc *service.TrendService,
	logger *log.Logger,
) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc:    ingestionSvc,
		lineSyncSvc:     lineSyncSvc,
		gradingSvc:      gradingSvc,
		trendSvc:        trendSvc,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleStatSync schedules the recurring box-score backfill. Each run also
// refreshes the upcoming schedule so later stat lines and prop lines can link
// to their games.
func (s *Scheduler) ScheduleStatSync(cronExpression string, sourceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Hour)
		defer cancel()

		endDate := time.Now().UTC()
		startDate := endDate.Add(-statSyncLookbackDays * 24 * time.Hour)

		s.logger.Printf("Starting scheduled stat sync from %s for %s to %s",
			sourceName, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

		metrics, err := s.ingestionSvc.IngestHistoricalStats(ctx, sourceName, startDate, endDate)
		if err != nil {
			s.logger.Printf("Error during scheduled stat sync: %v", err)
		} else {
			s.logger.Printf("Scheduled stat sync completed: %s", metrics.String())
		}

		stored, err := s.ingestionSvc.IngestSchedule(ctx, sourceName, endDate, endDate.Add(scheduleLookaheadDays*24*time.Hour))
		if err != nil {
			s.logger.Printf("Error during scheduled schedule refresh: %v", err)
		} else {
			s.logger.Printf("Schedule refresh stored %d games", stored)
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled stat sync job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleLineSync schedules the recurring prop line snapshot pull
func (s *Scheduler) ScheduleLineSync(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		stored, err := s.lineSyncSvc.SyncTodaysLines(ctx)
		if err != nil {
			s.logger.Printf("Error during scheduled line sync: %v", err)
			return
		}
		s.logger.Printf("Scheduled line sync stored %d lines", stored)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled line sync job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleGrading schedules the recurring outcome settlement pass
func (s *Scheduler) ScheduleGrading(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		report, err := s.gradingSvc.GradePendingOutcomes(ctx)
		if err != nil {
			s.logger.Printf("Error during scheduled grading: %v", err)
			return
		}
		s.logger.Printf("Scheduled grading completed: graded=%d pushes=%d voided=%d still_pending=%d",
			report.Graded, report.Pushes, report.Voided, report.StillPending)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled grading job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleTrendReport schedules the recurring streak report
func (s *Scheduler) ScheduleTrendReport(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		entries, err := s.trendSvc.GenerateReport(ctx)
		if err != nil {
			s.logger.Printf("Error during scheduled trend report: %v", err)
			return
		}
		s.logger.Printf("Trend report (%d streaks):\n%s", len(entries), s.trendSvc.RenderConsole(entries))
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled trend report job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleLivePolling schedules in-progress stat polling
func (s *Scheduler) ScheduleLivePolling(intervalSeconds int, sourceName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()

		if err := s.ingestionSvc.IngestLiveStats(ctx, sourceName); err != nil {
			s.logger.Printf("Error during live polling from %s: %v", sourceName, err)
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled live polling job with interval: %d seconds", intervalSeconds)

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
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Printf("Scheduler stop timed out with jobs still running")
	}
	s.isRunning = false
	s.logger.Printf("Scheduler stopped")

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
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
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

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.Printf("Removed job: %d", jobID)

	return nil
}
