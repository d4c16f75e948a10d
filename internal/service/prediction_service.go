package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/props"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/internal/roster"
)

// PropRequest describes one prediction request
type PropRequest struct {
	AthleteQuery string
	Market       string
	Line         float64
	Book         string
	GameDate     time.Time

	// Optional what-if overrides. When set they replace the scheduled game
	// context and the prediction bypasses the cache.
	Opponent string
	IsHome   *bool
}

// HasContextOverride reports whether the request pins its own game context
func (r *PropRequest) HasContextOverride() bool {
	return r.Opponent != "" || r.IsHome != nil
}

// PredictionService orchestrates athlete resolution, aggregation and blending
type PredictionService struct {
	resolver     roster.Resolver
	aggregator   *props.Aggregator
	blender      *props.Blender
	predictions  repository.PredictionRepository
	outcomes     repository.OutcomeRepository
	games        repository.GameRepository
	cache        *PredictionCache
	audit        *logger.AuditLogger
	plog         *logger.PredictionLogger
	logger       *logrus.Logger
	historyLimit int
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	resolver roster.Resolver,
	aggregator *props.Aggregator,
	blender *props.Blender,
	predictions repository.PredictionRepository,
	outcomes repository.OutcomeRepository,
	games repository.GameRepository,
	cache *PredictionCache,
	audit *logger.AuditLogger,
	plog *logger.PredictionLogger,
	log *logrus.Logger,
	historyLimit int,
) *PredictionService {
	if historyLimit <= 0 {
		historyLimit = 50
	}

	return &PredictionService{
		resolver:     resolver,
		aggregator:   aggregator,
		blender:      blender,
		predictions:  predictions,
		outcomes:     outcomes,
		games:        games,
		cache:        cache,
		audit:        audit,
		plog:         plog,
		logger:       log,
		historyLimit: historyLimit,
	}
}

// PredictProp produces a prediction for one athlete, market and line
func (s *PredictionService) PredictProp(ctx context.Context, req *PropRequest) (*models.PropPrediction, error) {
	start := time.Now()

	athlete, err := s.resolver.Resolve(ctx, req.AthleteQuery)
	if err != nil {
		s.plog.LogPredictionError(req.AthleteQuery, req.Market, "athlete_not_resolved")
		return nil, fmt.Errorf("failed to resolve athlete %q: %w", req.AthleteQuery, err)
	}

	gameDate := req.GameDate
	if gameDate.IsZero() {
		gameDate = time.Now()
	}

	key := PredictionCacheKey{
		AthleteID: athlete.ID,
		Market:    req.Market,
		Line:      req.Line,
		GameDate:  gameDate,
	}

	if !req.HasContextOverride() {
		if cached := s.cache.Get(key); cached != nil {
			s.plog.LogPredictionRequest(athlete.FullName, req.Market, req.Line, true, float64(time.Since(start).Milliseconds()))
			return cached, nil
		}
	}

	records, err := s.resolver.HistoricalRecords(ctx, athlete.ID, s.historyLimit)
	if err != nil {
		s.plog.LogPredictionError(athlete.FullName, req.Market, "history_unavailable")
		return nil, fmt.Errorf("failed to load history for %s: %w", athlete.FullName, err)
	}

	gameCtx, opponent, gameID := s.resolveGameContext(ctx, athlete, gameDate)
	if req.Opponent != "" {
		opponent = req.Opponent
	}
	if req.IsHome != nil {
		gameCtx.IsHome = req.IsHome
	}

	summary, err := s.aggregator.Aggregate(records, req.Market, opponent)
	if err != nil {
		s.plog.LogPredictionError(athlete.FullName, req.Market, "unsupported_market")
		return nil, err
	}

	s.plog.LogAggregation(athlete.FullName, req.Market, len(records),
		summary.SampleSize, summary.RecentFormSampleSize, summary.OpponentSampleSize)

	result := s.blender.Predict(summary, req.Line, gameCtx)

	prediction := &models.PropPrediction{
		ID:               uuid.New(),
		AthleteID:        athlete.ID,
		GameID:           gameID,
		Market:           req.Market,
		Line:             req.Line,
		Predicted:        result.PredictedValue,
		Confidence:       result.Confidence,
		OverProbability:  result.OverProbability,
		UnderProbability: result.UnderProbability,
		SampleSize:       summary.SampleSize,
		PredictedAt:      time.Now(),
	}

	if inputs, err := json.Marshal(map[string]interface{}{
		"summary":              summary,
		"contributing_factors": result.ContributingFactors,
		"game_context":         gameCtx,
	}); err == nil {
		prediction.Inputs = inputs
	} else {
		s.logger.WithError(err).Warn("Failed to encode prediction inputs")
	}

	if err := s.predictions.Insert(ctx, prediction); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"athlete": athlete.FullName,
			"market":  req.Market,
		}).Warn("Failed to store prediction")
	} else if !req.HasContextOverride() {
		// A pinned context is a what-if; grading it against the real game
		// would settle the wrong question.
		s.createPendingOutcome(ctx, prediction, req.Book, gameDate)
	}

	s.audit.LogPredictionIssued(prediction.ID.String(), athlete.ID.String(), req.Market,
		req.Line, prediction.Predicted, prediction.Confidence, prediction.OverProbability, prediction.PredictedAt)

	metrics.RecordPredictionIssued()
	metrics.RecordPredictionConfidence(req.Market, prediction.Confidence)
	metrics.RecordPredictionLatency(time.Since(start).Seconds())

	if !req.HasContextOverride() {
		s.cache.Set(key, prediction)
	}
	s.plog.LogPredictionRequest(athlete.FullName, req.Market, req.Line, false, float64(time.Since(start).Milliseconds()))

	return prediction, nil
}

// resolveGameContext looks up the scheduled game on the requested date.
// Returns an empty context when no game is found.
func (s *PredictionService) resolveGameContext(ctx context.Context, athlete *models.Athlete, gameDate time.Time) (*props.GameContext, string, *uuid.UUID) {
	gameCtx := &props.GameContext{}

	if athlete.Team == "" {
		return gameCtx, "", nil
	}

	games, err := s.games.GetByTeamAndDate(ctx, athlete.Team, gameDate)
	if err != nil || len(games) == 0 {
		return gameCtx, "", nil
	}

	game := games[0]
	isHome, opponent, found := game.SideFor(athlete.Team)
	if !found {
		return gameCtx, "", nil
	}

	gameCtx.IsHome = &isHome
	return gameCtx, opponent, &game.ID
}

// createPendingOutcome records an ungraded outcome row for later settlement
func (s *PredictionService) createPendingOutcome(ctx context.Context, prediction *models.PropPrediction, book string, gameDate time.Time) {
	outcome := &models.PropOutcome{
		ID:           uuid.New(),
		AthleteID:    prediction.AthleteID,
		PredictionID: &prediction.ID,
		Market:       prediction.Market,
		Line:         prediction.Line,
		Book:         book,
		GameDate:     gameDate,
		Status:       models.GradeStatusPending,
	}

	if err := s.outcomes.Create(ctx, outcome); err != nil {
		s.logger.WithError(err).WithField("prediction_id", prediction.ID).Warn("Failed to create pending outcome")
	}
}

// GetRecentPredictions returns the latest stored predictions for a market
func (s *PredictionService) GetRecentPredictions(ctx context.Context, market string, limit int) ([]*models.PropPrediction, error) {
	return s.predictions.GetRecentByMarket(ctx, market, limit)
}

// UpdateHitRateMetrics refreshes the rolling hit rate gauges from graded history
func (s *PredictionService) UpdateHitRateMetrics(ctx context.Context, markets []string, daysBack int) {
	var total float64
	var counted int

	for _, market := range markets {
		rate, err := s.predictions.GetHitRateByMarket(ctx, market, daysBack)
		if err != nil {
			s.logger.WithError(err).WithField("market", market).Warn("Failed to compute hit rate")
			continue
		}
		metrics.UpdateMarketHitRate(market, rate)
		total += rate
		counted++
	}

	if counted > 0 {
		metrics.UpdateDailyHitRate(total / float64(counted))
	}
}

// InvalidateAthlete drops cached predictions after fresh stats land
func (s *PredictionService) InvalidateAthlete(athleteID uuid.UUID) {
	s.cache.Invalidate(athleteID)
}
