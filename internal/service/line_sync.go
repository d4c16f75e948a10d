package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/oddsfeed"
	"github.com/yourusername/prop-insight/internal/repository"
)

const dateLayout = "2006-01-02"

// LineSyncService pulls posted prop lines from the odds feed and stores
// snapshots for prediction and grading
type LineSyncService struct {
	client      *oddsfeed.OddsFeedClient
	auth        *oddsfeed.AuthService
	athleteRepo repository.AthleteRepository
	lineRepo    repository.PropLineRepository
	gameRepo    repository.GameRepository
	logger      *log.Logger

	stream    *oddsfeed.StreamClient
	collector *oddsfeed.LineCollector
}

// NewLineSyncService creates a new line sync service
func NewLineSyncService(
	client *oddsfeed.OddsFeedClient,
	auth *oddsfeed.AuthService,
	athleteRepo repository.AthleteRepository,
	lineRepo repository.PropLineRepository,
	gameRepo repository.GameRepository,
	logger *log.Logger,
) *LineSyncService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &LineSyncService{
		client:      client,
		auth:        auth,
		athleteRepo: athleteRepo,
		lineRepo:    lineRepo,
		gameRepo:    gameRepo,
		logger:      logger,
	}
}

// SyncTodaysLines fetches the current slate's prop markets and stores one
// line snapshot per market and book
func (s *LineSyncService) SyncTodaysLines(ctx context.Context) (int, error) {
	if err := s.ensureSession(ctx); err != nil {
		return 0, err
	}

	catalogs, err := s.client.ListTodaysPropMarkets(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch prop market catalog: %w", err)
	}

	s.logger.Printf("Found %d prop markets for %s", len(catalogs), time.Now().Format(dateLayout))

	var batch []*models.PropLine
	activeMarkets := make(map[string]struct{})
	bookCounts := make(map[string]map[string]int)
	unknown := 0

	for i := range catalogs {
		catalog := &catalogs[i]

		athlete := s.resolveAthlete(ctx, catalog)
		if athlete == nil {
			unknown++
			continue
		}

		snapshots, err := s.client.GetLatestLines(ctx, catalog.MarketID, catalog.Market, athlete.ID)
		if err != nil {
			s.logger.Printf("Error fetching lines for market %s: %v", catalog.MarketID, err)
			continue
		}

		gameID := s.lookupGameID(ctx, athlete.Team, catalog.ScheduledStart)

		for book, snapshot := range snapshots {
			snapshot.GameID = gameID
			batch = append(batch, snapshot)

			if bookCounts[catalog.Market] == nil {
				bookCounts[catalog.Market] = make(map[string]int)
			}
			bookCounts[catalog.Market][book]++
		}

		activeMarkets[catalog.Market] = struct{}{}
	}

	if len(batch) > 0 {
		if err := s.lineRepo.InsertBatch(ctx, batch); err != nil {
			return 0, fmt.Errorf("failed to insert line snapshots: %w", err)
		}
	}

	metrics.UpdateActiveMarkets(float64(len(activeMarkets)))
	for market, books := range bookCounts {
		for book, count := range books {
			metrics.UpdateMarketOpenLines(market, book, float64(count))
		}
	}

	s.logger.Printf("Line sync complete: %d snapshots stored, %d markets active, %d unknown athletes",
		len(batch), len(activeMarkets), unknown)

	return len(batch), nil
}

// StartLiveCollection connects the stream and collects line movement for
// today's slate until StopLiveCollection is called
func (s *LineSyncService) StartLiveCollection(ctx context.Context, bufferSize int, flushInterval time.Duration) error {
	if s.collector != nil {
		return fmt.Errorf("live collection already running")
	}

	if err := s.ensureSession(ctx); err != nil {
		return err
	}

	catalogs, err := s.client.ListTodaysPropMarkets(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch prop market catalog: %w", err)
	}

	athleteRefs := make(map[string]uuid.UUID)
	marketSet := make(map[string]struct{})
	for i := range catalogs {
		catalog := &catalogs[i]
		athlete := s.resolveAthlete(ctx, catalog)
		if athlete == nil {
			continue
		}
		athleteRefs[catalog.AthleteRef] = athlete.ID
		marketSet[catalog.Market] = struct{}{}
	}

	if len(athleteRefs) == 0 {
		return fmt.Errorf("no resolvable athletes on today's slate")
	}

	markets := make([]string, 0, len(marketSet))
	for market := range marketSet {
		markets = append(markets, market)
	}

	stream := oddsfeed.NewStreamClient(s.client.GetSessionToken(), s.client.GetAPIKey(), s.client.GetStreamURL(), s.logger)
	if err := stream.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect stream: %w", err)
	}
	if err := stream.Authenticate(ctx); err != nil {
		stream.Close()
		return fmt.Errorf("failed to authenticate stream: %w", err)
	}

	collector := oddsfeed.NewLineCollector(stream, s.lineRepo, bufferSize, flushInterval, s.logger)
	if err := collector.Start(ctx, athleteRefs, markets); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start line collector: %w", err)
	}

	s.stream = stream
	s.collector = collector
	s.logger.Printf("Live line collection started for %d athletes across %d markets", len(athleteRefs), len(markets))
	return nil
}

// StopLiveCollection flushes and shuts down the live collector
func (s *LineSyncService) StopLiveCollection() error {
	if s.collector == nil {
		return nil
	}

	err := s.collector.Stop()
	s.collector = nil
	s.stream = nil
	return err
}

// CollectorMetrics returns live collector counters, or nil when not running
func (s *LineSyncService) CollectorMetrics() *oddsfeed.CollectorMetrics {
	if s.collector == nil {
		return nil
	}
	m := s.collector.GetMetrics()
	return &m
}

// ensureSession refreshes the feed session when close to expiry
func (s *LineSyncService) ensureSession(ctx context.Context) error {
	if s.client.IsAuthenticated() && !s.client.NeedsRefresh() {
		return nil
	}
	if err := s.auth.RefreshSession(ctx); err != nil {
		return fmt.Errorf("failed to refresh odds feed session: %w", err)
	}
	return nil
}

// resolveAthlete maps a feed catalog entry to a stored athlete, trying the
// provider ref first and the posted name second
func (s *LineSyncService) resolveAthlete(ctx context.Context, catalog *oddsfeed.PropMarketCatalog) *models.Athlete {
	athlete, err := s.athleteRepo.GetByExternalRef(ctx, catalog.AthleteRef)
	if err == nil {
		return athlete
	}

	matches, err := s.athleteRepo.GetByName(ctx, catalog.AthleteName)
	if err != nil || len(matches) != 1 {
		s.logger.Printf("Unknown athlete on feed: %s (%s)", catalog.AthleteName, catalog.AthleteRef)
		return nil
	}

	return matches[0]
}

// lookupGameID finds the scheduled game for the team on the given date
func (s *LineSyncService) lookupGameID(ctx context.Context, team string, date time.Time) *uuid.UUID {
	if team == "" {
		return nil
	}

	games, err := s.gameRepo.GetByTeamAndDate(ctx, team, date)
	if err != nil || len(games) == 0 {
		return nil
	}

	return &games[0].ID
}
