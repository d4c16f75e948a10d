package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
)

// GradingReport summarizes one grading run
type GradingReport struct {
	Graded       int
	Pushes       int
	Voided       int
	StillPending int
	Duration     time.Duration
}

// GradingService settles pending outcomes against ingested box scores
type GradingService struct {
	outcomes  repository.OutcomeRepository
	stats     repository.GameStatRepository
	registry  *props.Registry
	audit     *logger.AuditLogger
	plog      *logger.PredictionLogger
	logger    *logrus.Logger
	voidAfter time.Duration
}

// NewGradingService creates a new grading service. Outcomes older than
// voidAfter with no recorded stat line are voided instead of left pending.
func NewGradingService(
	outcomes repository.OutcomeRepository,
	stats repository.GameStatRepository,
	registry *props.Registry,
	audit *logger.AuditLogger,
	plog *logger.PredictionLogger,
	log *logrus.Logger,
	voidAfter time.Duration,
) *GradingService {
	if voidAfter <= 0 {
		voidAfter = 72 * time.Hour
	}

	return &GradingService{
		outcomes:  outcomes,
		stats:     stats,
		registry:  registry,
		audit:     audit,
		plog:      plog,
		logger:    log,
		voidAfter: voidAfter,
	}
}

// GradePendingOutcomes grades every pending outcome with a recorded box score
func (s *GradingService) GradePendingOutcomes(ctx context.Context) (*GradingReport, error) {
	start := time.Now()
	report := &GradingReport{}

	pending, err := s.outcomes.GetPendingOutcomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending outcomes: %w", err)
	}

	for _, outcome := range pending {
		actual, found, err := s.lookupActual(ctx, outcome)
		if err != nil {
			s.logger.WithError(err).WithField("outcome_id", outcome.ID).Warn("Failed to look up stat line")
			report.StillPending++
			continue
		}

		if !found {
			if time.Since(outcome.GameDate) > s.voidAfter {
				if err := s.voidOutcome(ctx, outcome); err != nil {
					s.logger.WithError(err).WithField("outcome_id", outcome.ID).Warn("Failed to void outcome")
					report.StillPending++
					continue
				}
				report.Voided++
			} else {
				report.StillPending++
			}
			continue
		}

		result := gradeResult(actual, outcome.Line)
		now := time.Now()
		outcome.Actual = &actual
		outcome.Result = result
		outcome.Status = models.GradeStatusGraded
		outcome.GradedAt = &now

		if err := s.outcomes.Update(ctx, outcome); err != nil {
			s.logger.WithError(err).WithField("outcome_id", outcome.ID).Warn("Failed to store graded outcome")
			report.StillPending++
			continue
		}

		s.audit.LogOutcomeGraded(outcome.ID.String(), outcome.AthleteID.String(),
			outcome.Market, outcome.Line, actual, string(result))
		metrics.RecordOutcomeGraded()

		report.Graded++
		if result == models.OutcomePush {
			report.Pushes++
		}
	}

	report.Duration = time.Since(start)
	metrics.UpdatePendingOutcomes(float64(report.StillPending))
	s.plog.LogGradingRun(report.Graded, report.Pushes, report.Voided, float64(report.Duration.Milliseconds()))

	s.logger.WithFields(logrus.Fields{
		"graded":        report.Graded,
		"pushes":        report.Pushes,
		"voided":        report.Voided,
		"still_pending": report.StillPending,
		"duration":      report.Duration,
	}).Info("Grading run complete")

	return report, nil
}

// lookupActual finds the settled stat value for the outcome's game day
func (s *GradingService) lookupActual(ctx context.Context, outcome *models.PropOutcome) (float64, bool, error) {
	dayStart := time.Date(outcome.GameDate.Year(), outcome.GameDate.Month(), outcome.GameDate.Day(),
		0, 0, 0, 0, outcome.GameDate.Location())

	stats, err := s.stats.GetByAthleteID(ctx, outcome.AthleteID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return 0, false, err
	}

	for _, stat := range stats {
		fields, err := stat.ParseStatFields()
		if err != nil {
			continue
		}

		value, err := s.registry.Extract(outcome.Market, fields)
		if err != nil {
			if errors.Is(err, props.ErrValueUnavailable) {
				continue
			}
			return 0, false, err
		}
		return value, true, nil
	}

	return 0, false, nil
}

// voidOutcome marks an outcome as unsettleable
func (s *GradingService) voidOutcome(ctx context.Context, outcome *models.PropOutcome) error {
	now := time.Now()
	outcome.Status = models.GradeStatusVoided
	outcome.GradedAt = &now

	if err := s.outcomes.Update(ctx, outcome); err != nil {
		return err
	}

	s.audit.LogOutcomeGraded(outcome.ID.String(), outcome.AthleteID.String(),
		outcome.Market, outcome.Line, 0, string(models.GradeStatusVoided))
	return nil
}

// gradeResult settles an actual value against the line
func gradeResult(actual, line float64) models.OutcomeResult {
	switch {
	case actual > line:
		return models.OutcomeOver
	case actual < line:
		return models.OutcomeUnder
	default:
		return models.OutcomePush
	}
}
