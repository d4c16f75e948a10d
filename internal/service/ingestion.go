package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/internal/logger"
	"github.com/yourusername/prop-insight/internal/metrics"
	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/repository"
	"github.com/yourusername/prop-insight/internal/roster"
)

// IngestionService handles the box score ingestion workflow
type IngestionService struct {
	sources     []datasource.DataSource
	athleteRepo repository.AthleteRepository
	statRepo    repository.GameStatRepository
	gameRepo    repository.GameRepository
	validator   *DataValidator
	normalizer  *roster.Normalizer
	audit       *logger.AuditLogger
	runMetrics  *IngestionMetrics
	logger      *log.Logger
	batchSize   int
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources []datasource.DataSource,
	athleteRepo repository.AthleteRepository,
	statRepo repository.GameStatRepository,
	gameRepo repository.GameRepository,
	validator *DataValidator,
	normalizer *roster.Normalizer,
	audit *logger.AuditLogger,
	log *log.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}

	return &IngestionService{
		sources:     sources,
		athleteRepo: athleteRepo,
		statRepo:    statRepo,
		gameRepo:    gameRepo,
		validator:   validator,
		normalizer:  normalizer,
		audit:       audit,
		runMetrics:  NewIngestionMetrics(),
		logger:      log,
		batchSize:   batchSize,
	}
}

// IngestHistoricalStats fetches and ingests box scores from a specific source
func (s *IngestionService) IngestHistoricalStats(ctx context.Context, sourceName string, startDate, endDate time.Time) (*IngestionMetrics, error) {
	s.runMetrics.Reset()

	s.logger.Printf("Starting historical stat ingestion from %s (%s to %s)", sourceName, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	source, err := s.findSource(sourceName)
	if err != nil {
		return nil, err
	}

	// Fetch stat records
	records, err := source.FetchGameStats(ctx, startDate, endDate)
	if err != nil {
		s.runMetrics.RecordError()
		s.reportSourceFailure(source, err)
		metrics.RecordIngestRequest(sourceName, "error")
		s.logger.Printf("Failed to fetch stat records from %s: %v", sourceName, err)
		return s.runMetrics, fmt.Errorf("failed to fetch stat records: %w", err)
	}

	metrics.RecordIngestRequest(sourceName, "success")
	metrics.UpdateProviderFailureStreak(sourceName, 0)
	s.logger.Printf("Fetched %d stat records from %s", len(records), sourceName)
	s.runMetrics.TotalRecords = len(records)

	// Process records in batches
	for i := 0; i < len(records); i += s.batchSize {
		end := i + s.batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[i:end]
		if err := s.processBatch(ctx, batch, sourceName); err != nil {
			s.logger.Printf("Error processing batch: %v", err)
			s.runMetrics.RecordError()
			// Continue processing other batches
		}
	}

	s.runMetrics.Finish()
	s.logger.Printf("Historical ingestion complete: %s", s.runMetrics.String())
	s.audit.LogJobExecution("stat_ingestion", "completed", s.runMetrics.SuccessfulRecords, s.runMetrics.Duration.Seconds()*1000)

	return s.runMetrics, nil
}

// IngestSchedule fetches and stores upcoming games from a specific source
func (s *IngestionService) IngestSchedule(ctx context.Context, sourceName string, startDate, endDate time.Time) (int, error) {
	source, err := s.findSource(sourceName)
	if err != nil {
		return 0, err
	}

	games, err := source.FetchSchedule(ctx, startDate, endDate)
	if err != nil {
		s.reportSourceFailure(source, err)
		metrics.RecordIngestRequest(sourceName, "error")
		return 0, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	metrics.RecordIngestRequest(sourceName, "success")
	s.logger.Printf("Fetched %d scheduled games from %s", len(games), sourceName)

	stored := 0
	for _, game := range games {
		created, err := s.storeGame(ctx, &game)
		if err != nil {
			s.logger.Printf("Error storing game %s vs %s: %v", game.AwayTeam, game.HomeTeam, err)
			continue
		}
		if created {
			stored++
		}
	}

	s.logger.Printf("Schedule ingestion complete: %d of %d games stored", stored, len(games))
	return stored, nil
}

// IngestLiveStats fetches box scores for games completed since yesterday
func (s *IngestionService) IngestLiveStats(ctx context.Context, sourceName string) error {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	_, err := s.IngestHistoricalStats(ctx, sourceName, yesterday, now)
	return err
}

// findSource locates a configured data source by name
func (s *IngestionService) findSource(sourceName string) (datasource.DataSource, error) {
	for _, src := range s.sources {
		if src.Name() == sourceName {
			return src, nil
		}
	}
	return nil, fmt.Errorf("data source not found: %s", sourceName)
}

// reportSourceFailure audit-logs fetch failures, including pause state
func (s *IngestionService) reportSourceFailure(source datasource.DataSource, fetchErr error) {
	streak := 0
	if tracker, ok := source.(interface{ FailureStreak() int }); ok {
		streak = tracker.FailureStreak()
	}
	metrics.UpdateProviderFailureStreak(source.Name(), float64(streak))

	action := "retried"
	if errors.Is(fetchErr, datasource.ErrSourcePaused) {
		action = "paused"
	}
	s.audit.LogDataSourceFailure(source.Name(), fetchErr.Error(), streak, action)
}

// processBatch validates and persists a batch of stat records
func (s *IngestionService) processBatch(ctx context.Context, records []datasource.StatRecordData, sourceName string) error {
	start := time.Now()
	pending := make([]*models.GameStat, 0, len(records))

	for i := range records {
		stat, err := s.processRecord(ctx, &records[i], sourceName)
		if err != nil {
			s.runMetrics.RecordError()
			s.logger.Printf("Error processing stat record %s: %v", records[i].SourceID, err)
			continue
		}
		if stat == nil {
			// Skipped by validation or dedupe
			continue
		}
		pending = append(pending, stat)
	}

	if len(pending) > 0 {
		if err := s.statRepo.InsertBatch(ctx, pending); err != nil {
			return fmt.Errorf("failed to insert stat batch: %w", err)
		}
		for range pending {
			s.runMetrics.RecordSuccess()
			metrics.RecordStatRecordIngested()
		}
	}

	metrics.RecordIngestBatchDuration(sourceName, time.Since(start).Seconds())
	return nil
}

// processRecord validates, resolves, and converts a single stat record.
// Returns nil with no error when the record is skipped.
func (s *IngestionService) processRecord(ctx context.Context, record *datasource.StatRecordData, sourceName string) (*models.GameStat, error) {
	validationErrors := s.validator.ValidateStatRecord(record)
	if len(validationErrors) > 0 {
		s.runMetrics.RecordValidationError()
		s.logger.Printf("Stat record validation failed for %s: %v", record.AthleteRef, validationErrors)
		return nil, nil
	}

	athlete, err := s.ensureAthlete(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve athlete %s: %w", record.AthleteRef, err)
	}

	// Check for an existing stat line on the same day
	dayStart := time.Date(record.GameTime.Year(), record.GameTime.Month(), record.GameTime.Day(), 0, 0, 0, 0, record.GameTime.Location())
	existing, err := s.statRepo.GetByAthleteID(ctx, athlete.ID, dayStart, dayStart.Add(24*time.Hour))
	if err == nil && len(existing) > 0 {
		s.runMetrics.RecordDuplicate()
		return nil, nil
	}

	fields, warnings := s.validator.CoerceStatFields(record.StatFields)
	for _, warning := range warnings {
		s.logger.Printf("Stat field warning for %s: %s", record.AthleteRef, warning)
	}
	if len(fields) == 0 {
		s.runMetrics.RecordValidationError()
		s.logger.Printf("Stat record for %s has no usable numeric fields", record.AthleteRef)
		return nil, nil
	}

	statJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stat fields: %w", err)
	}

	stat := &models.GameStat{
		Time:       record.GameTime,
		AthleteID:  athlete.ID,
		Season:     record.Season,
		Opponent:   s.normalizer.NormalizeTeam(record.Opponent),
		IsHome:     record.IsHome,
		StatFields: statJSON,
		Source:     sourceName,
	}

	s.linkGame(ctx, record, athlete, stat)

	return stat, nil
}

// ensureAthlete fetches the athlete by provider ref, creating it on first sight
func (s *IngestionService) ensureAthlete(ctx context.Context, record *datasource.StatRecordData) (*models.Athlete, error) {
	athlete, err := s.athleteRepo.GetByExternalRef(ctx, record.AthleteRef)
	if err == nil {
		return athlete, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	athlete = &models.Athlete{
		ID:          uuid.New(),
		ExternalRef: record.AthleteRef,
		FullName:    s.normalizer.NormalizeAthleteName(record.AthleteName),
		Team:        s.normalizer.NormalizeTeam(record.Team),
		Active:      true,
	}

	if err := s.athleteRepo.Create(ctx, athlete); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			// Another worker created it first
			return s.athleteRepo.GetByExternalRef(ctx, record.AthleteRef)
		}
		return nil, err
	}

	s.runMetrics.RecordAthleteCreated()
	s.logger.Printf("Created athlete %s (%s)", athlete.FullName, athlete.ExternalRef)
	return athlete, nil
}

// linkGame attaches the matching scheduled game and fills in missing sides
func (s *IngestionService) linkGame(ctx context.Context, record *datasource.StatRecordData, athlete *models.Athlete, stat *models.GameStat) {
	team := s.normalizer.NormalizeTeam(record.Team)
	if team == "" {
		team = athlete.Team
	}
	if team == "" {
		return
	}

	games, err := s.gameRepo.GetByTeamAndDate(ctx, team, record.GameTime)
	if err != nil || len(games) == 0 {
		return
	}

	game := games[0]
	stat.GameID = &game.ID
	s.runMetrics.RecordGameLinked()

	if isHome, opponent, found := game.SideFor(team); found {
		if stat.Opponent == "" {
			stat.Opponent = opponent
		}
		if stat.IsHome == nil {
			stat.IsHome = &isHome
		}
	}
}

// storeGame persists a scheduled game if it is valid and not already stored
func (s *IngestionService) storeGame(ctx context.Context, game *datasource.GameData) (bool, error) {
	validationErrors := s.validator.ValidateGame(game)
	if len(validationErrors) > 0 {
		s.logger.Printf("Game validation failed for %s: %v", game.SourceID, validationErrors)
		return false, nil
	}

	homeTeam := s.normalizer.NormalizeTeam(game.HomeTeam)
	awayTeam := s.normalizer.NormalizeTeam(game.AwayTeam)

	existing, err := s.gameRepo.GetByTeamAndDate(ctx, homeTeam, game.ScheduledStart)
	if err == nil && len(existing) > 0 {
		return false, nil
	}

	status := game.Status
	if status == "" {
		status = "scheduled"
	}

	stored := &models.Game{
		ID:             uuid.New(),
		ExternalRef:    game.SourceID,
		Season:         game.Season,
		ScheduledStart: game.ScheduledStart,
		HomeTeam:       homeTeam,
		AwayTeam:       awayTeam,
		Venue:          game.Venue,
		Status:         status,
	}

	if err := s.gameRepo.Create(ctx, stored); err != nil {
		return false, fmt.Errorf("failed to create game: %w", err)
	}

	return true, nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.runMetrics
}

// ResetMetrics resets ingestion metrics
func (s *IngestionService) ResetMetrics() {
	s.runMetrics.Reset()
}
