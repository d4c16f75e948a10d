package evaluation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/database"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
)

// gradingGraceDays widens the graded_at query past the window end so outcomes
// graded a few days after their game still land in the replay
const gradingGraceDays = 7

// Engine replays settled outcomes chronologically, rebuilding each athlete's
// pre-game summary and re-issuing the prediction the model would have made
// against the recorded line.
type Engine struct {
	config       Config
	db           *database.DB
	repositories *repository.Repositories
	registry     *props.Registry
	aggregator   *props.Aggregator
	blender      *props.Blender
	logger       *logrus.Logger
	history      map[uuid.UUID][]*models.GameStat
}

// NewEngine creates an evaluation engine
func NewEngine(cfg Config, db *database.DB, logger *logrus.Logger) (*Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, err
	}

	registry := props.NewRegistry(nil)
	return &Engine{
		config:       cfg,
		db:           db,
		repositories: repos,
		registry:     registry,
		aggregator:   props.NewAggregator(registry, nil, nil, logger),
		blender:      props.NewBlender(nil),
		logger:       logger,
		history:      make(map[uuid.UUID][]*models.GameStat),
	}, nil
}

// Config returns the evaluation configuration
func (e *Engine) Config() Config {
	return e.config
}

// Logger returns the engine logger
func (e *Engine) Logger() *logrus.Logger {
	return e.logger
}

// Repositories returns the repository container
func (e *Engine) Repositories() *repository.Repositories {
	return e.repositories
}

// Close releases engine resources
func (e *Engine) Close(ctx context.Context) error {
	if e.db == nil {
		return nil
	}
	e.db.Close()
	return nil
}

// Run orchestrates an evaluation run over the given window
func (e *Engine) Run(ctx context.Context, startDate, endDate time.Time) (*EvalState, Metrics, error) {
	e.logger.WithFields(logrus.Fields{"start": startDate, "end": endDate}).Info("Starting evaluation run")
	state, err := e.ChronologicalReplay(ctx, startDate, endDate)
	if err != nil {
		return nil, Metrics{}, err
	}

	cfg := e.config
	cfg.StartDate = startDate
	cfg.EndDate = endDate
	metrics := CalculateMetrics(state, cfg)
	return state, metrics, nil
}

// ChronologicalReplay walks graded outcomes in game order and scores the
// prediction each one would have received before tip-off
func (e *Engine) ChronologicalReplay(ctx context.Context, startDate, endDate time.Time) (*EvalState, error) {
	state := NewEvalState(e.config.RollingWindow)

	outcomes, err := e.repositories.Outcome.GetGradedOutcomes(ctx, startDate, endDate.AddDate(0, 0, gradingGraceDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load graded outcomes: %w", err)
	}

	eligible := e.filterOutcomes(outcomes, startDate, endDate)
	state.TotalOutcomes = len(eligible)

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].GameDate.Equal(eligible[j].GameDate) {
			return eligible[i].Market < eligible[j].Market
		}
		return eligible[i].GameDate.Before(eligible[j].GameDate)
	})

	for _, outcome := range eligible {
		if err := e.processOutcome(ctx, outcome, state); err != nil {
			return nil, err
		}
	}

	return state, nil
}

func (e *Engine) filterOutcomes(outcomes []*models.PropOutcome, startDate, endDate time.Time) []*models.PropOutcome {
	eligible := make([]*models.PropOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.GameDate.Before(startDate) || outcome.GameDate.After(endDate) {
			continue
		}
		if !e.config.EvaluatesMarket(outcome.Market) {
			continue
		}
		if outcome.Actual == nil {
			continue
		}
		eligible = append(eligible, outcome)
	}
	return eligible
}

func (e *Engine) processOutcome(ctx context.Context, outcome *models.PropOutcome, state *EvalState) error {
	if !e.registry.Supports(outcome.Market) {
		state.SkippedUnsupported++
		e.logger.WithField("market", outcome.Market).Debug("Skipping unsupported market")
		return nil
	}

	history, err := e.athleteHistory(ctx, outcome.AthleteID)
	if err != nil {
		return err
	}

	records := e.recordsBefore(history, outcome.GameDate)
	summary, err := e.aggregator.Aggregate(records, outcome.Market, "")
	if err != nil {
		state.SkippedUnsupported++
		return nil
	}

	if summary.SampleSize < e.config.MinGradedGames {
		state.SkippedThinHistory++
		e.logger.WithFields(logrus.Fields{
			"athlete_id":  outcome.AthleteID.String(),
			"market":      outcome.Market,
			"sample_size": summary.SampleSize,
		}).Debug("Skipping outcome with thin pre-game history")
		return nil
	}

	if outcome.IsPush() {
		state.RecordPush()
		return nil
	}

	prediction := e.blender.Predict(summary, outcome.Line, nil)

	side := props.DirectionOver
	if prediction.OverProbability < 0.5 {
		side = props.DirectionUnder
	}

	state.RecordPick(&ScoredPick{
		OutcomeID:       outcome.ID,
		AthleteID:       outcome.AthleteID,
		Market:          outcome.Market,
		GameDate:        outcome.GameDate,
		Line:            outcome.Line,
		Actual:          outcome.GetActual(),
		PredictedValue:  prediction.PredictedValue,
		OverProbability: prediction.OverProbability,
		Confidence:      prediction.Confidence,
		SampleSize:      summary.SampleSize,
		PredictedSide:   side,
		Result:          outcome.Result,
		Correct:         outcome.Correct(side),
	})
	return nil
}

// athleteHistory loads the athlete's stat lines for the whole lookback span
// once and reuses them for every outcome in the run
func (e *Engine) athleteHistory(ctx context.Context, athleteID uuid.UUID) ([]*models.GameStat, error) {
	if e.history == nil {
		e.history = make(map[uuid.UUID][]*models.GameStat)
	}
	if history, ok := e.history[athleteID]; ok {
		return history, nil
	}

	history, err := e.repositories.GameStat.GetByAthleteID(ctx, athleteID, e.config.HistoryStart(), e.config.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load stat history: %w", err)
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Time.After(history[j].Time)
	})

	e.history[athleteID] = history
	return history, nil
}

// recordsBefore converts stat lines strictly before the outcome's game day.
// Lines from the game day itself are excluded: grading matches stat lines by
// day, so anything on or after that day could leak the settled result into
// the summary.
func (e *Engine) recordsBefore(history []*models.GameStat, gameDate time.Time) []props.RawGameStat {
	dayStart := time.Date(gameDate.Year(), gameDate.Month(), gameDate.Day(), 0, 0, 0, 0, time.UTC)

	records := make([]props.RawGameStat, 0, len(history))
	for _, stat := range history {
		if !stat.Time.Before(dayStart) {
			continue
		}
		fields, err := stat.ParseStatFields()
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"athlete_id": stat.AthleteID.String(),
				"time":       stat.Time,
			}).WithError(err).Debug("Skipping stat line with unparseable fields")
			continue
		}

		record := props.RawGameStat{
			AthleteID:  stat.AthleteID.String(),
			GameDate:   stat.Time.Format("2006-01-02"),
			Opponent:   stat.Opponent,
			IsHome:     stat.IsHome,
			StatFields: fields,
		}
		if stat.GameID != nil {
			record.GameID = stat.GameID.String()
		}
		records = append(records, record)
	}
	return records
}
