package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
)

// TrendService builds ranked streak reports from graded outcomes
type TrendService struct {
	outcomes repository.OutcomeRepository
	athletes repository.AthleteRepository
	detector *props.Detector
	plog     *logger.PredictionLogger
	logger   *logrus.Logger
	cfg      *config.TrendsConfig
}

// NewTrendService creates a new trend service
func NewTrendService(
	outcomes repository.OutcomeRepository,
	athletes repository.AthleteRepository,
	detector *props.Detector,
	plog *logger.PredictionLogger,
	log *logrus.Logger,
	cfg *config.TrendsConfig,
) *TrendService {
	return &TrendService{
		outcomes: outcomes,
		athletes: athletes,
		detector: detector,
		plog:     plog,
		logger:   log,
		cfg:      cfg,
	}
}

// GenerateReport detects current streaks over the configured lookback window
func (s *TrendService) GenerateReport(ctx context.Context) ([]props.TrendEntry, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -s.cfg.LookbackDays)

	graded, err := s.outcomes.GetGradedOutcomes(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load graded outcomes: %w", err)
	}

	mapped := make([]props.GradedOutcome, 0, len(graded))
	athleteCache := make(map[uuid.UUID]*models.Athlete)
	groups := make(map[string]struct{})

	for _, outcome := range graded {
		// Pushes carry no directional signal
		if outcome.Result == models.OutcomePush {
			continue
		}

		athlete, ok := athleteCache[outcome.AthleteID]
		if !ok {
			athlete, err = s.athletes.GetByID(ctx, outcome.AthleteID)
			if err != nil {
				s.logger.WithError(err).WithField("athlete_id", outcome.AthleteID).Debug("Skipping outcome with unknown athlete")
				continue
			}
			athleteCache[outcome.AthleteID] = athlete
		}

		groups[athlete.FullName+"\x00"+outcome.Market] = struct{}{}
		mapped = append(mapped, props.GradedOutcome{
			AthleteName: athlete.FullName,
			Team:        athlete.Team,
			MarketKey:   outcome.Market,
			Line:        outcome.Line,
			Result:      string(outcome.Result),
			Sportsbook:  outcome.Book,
			GameDate:    outcome.GameDate.Format("2006-01-02"),
		})
	}

	entries := s.detector.DetectTrends(mapped)
	if len(entries) > s.cfg.MaxEntries {
		entries = entries[:s.cfg.MaxEntries]
	}

	topStreak := 0
	for _, entry := range entries {
		if entry.StreakLength > topStreak {
			topStreak = entry.StreakLength
		}
		metrics.RecordTrendEmitted(entry.StreakDirection, confidenceBucket(entry.Confidence))
	}

	s.plog.LogTrendReport(len(graded), len(groups), len(entries), topStreak)
	s.logger.WithFields(logrus.Fields{
		"outcomes_in":   len(graded),
		"groups":        len(groups),
		"trends":        len(entries),
		"top_streak":    topStreak,
		"lookback_days": s.cfg.LookbackDays,
	}).Info("Trend report generated")

	return entries, nil
}

// RenderConsole formats trend entries for terminal output
func (s *TrendService) RenderConsole(entries []props.TrendEntry) string {
	var builder strings.Builder
	builder.WriteString("Trend Report\n")
	builder.WriteString("============\n")

	if len(entries) == 0 {
		builder.WriteString("No qualifying streaks in the lookback window.\n")
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("%-25s %-22s %-14s %-6s %-7s %-6s %-12s %s\n",
		"ATHLETE", "TEAM", "MARKET", "DIR", "STREAK", "CONF", "LAST LINE", "LAST GAME"))

	for _, entry := range entries {
		builder.WriteString(fmt.Sprintf("%-25s %-22s %-14s %-6s %-7d %-6d %-12.1f %s\n",
			entry.AthleteName,
			entry.Team,
			entry.MarketKey,
			entry.StreakDirection,
			entry.StreakLength,
			entry.Confidence,
			entry.LastLine,
			entry.LastGameDate.Format("2006-01-02"),
		))
	}

	return builder.String()
}

// confidenceBucket maps a streak confidence score to a metric label
func confidenceBucket(confidence int) string {
	switch {
	case confidence < 50:
		return "low"
	case confidence < 75:
		return "medium"
	default:
		return "high"
	}
}
