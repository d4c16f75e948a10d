package datasource

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const statsArchiveSourceName = "stats_archive"

// statArchiveColumns are the fixed leading columns of an archive file.
// Every column after them is treated as a stat field.
var statArchiveColumns = []string{
	"record_id", "player_id", "player_name", "team", "opponent",
	"game_id", "game_time", "season", "is_home",
}

// StatsArchiveClient implements DataSource for bulk historical box score files.
// The archive serves whole-day CSV exports; per-athlete queries are not available.
type StatsArchiveClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// NewStatsArchiveClient creates a new historical archive client
func NewStatsArchiveClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *StatsArchiveClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StatsArchiveClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchGameStats downloads and parses every archive file in the date range
func (c *StatsArchiveClient) FetchGameStats(ctx context.Context, startDate, endDate time.Time) ([]StatRecordData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	files, err := c.GetAvailableFiles(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		// No data for the range is not an error
		return []StatRecordData{}, nil
	}

	var allRecords []StatRecordData
	parser := NewArchiveCSVParser(c.logger)

	for _, filename := range files {
		fileReader, err := c.DownloadArchiveFile(ctx, filename)
		if err != nil {
			c.logger.Printf("Failed to download file %s: %v", filename, err)
			continue
		}

		records, err := parser.ParseReader(fileReader)
		fileReader.Close()
		if err != nil {
			c.logger.Printf("Failed to parse file %s: %v", filename, err)
			continue
		}

		allRecords = append(allRecords, records...)
	}

	c.logger.Printf("Fetched %d stat lines from %d archive files", len(allRecords), len(files))

	return allRecords, nil
}

// FetchAthleteGameLog is not served by the archive; it exports whole days only
func (c *StatsArchiveClient) FetchAthleteGameLog(ctx context.Context, athleteRef string, limit int) ([]StatRecordData, error) {
	return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNotFound, "archive does not serve per-athlete game logs", nil)
}

// FetchSchedule is not served by the archive
func (c *StatsArchiveClient) FetchSchedule(ctx context.Context, startDate, endDate time.Time) ([]GameData, error) {
	return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNotFound, "archive does not serve schedules", nil)
}

// Name returns the data source name
func (c *StatsArchiveClient) Name() string {
	return statsArchiveSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *StatsArchiveClient) IsEnabled() bool {
	return c.enabled
}

// FailureStreak returns the transport's consecutive failure count
func (c *StatsArchiveClient) FailureStreak() int {
	return c.httpClient.FailureStreak()
}

// GetAvailableFiles lists archive files covering the date range
func (c *StatsArchiveClient) GetAvailableFiles(ctx context.Context, startDate, endDate time.Time) ([]string, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/files?from=%s&to=%s", c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNetworkError, "failed to list files", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	var files []string
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeInvalidData, "invalid response format", err)
	}

	return files, nil
}

// DownloadArchiveFile downloads a single archive CSV
func (c *StatsArchiveClient) DownloadArchiveFile(ctx context.Context, filename string) (io.ReadCloser, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/files/%s", c.baseURL, filename)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNetworkError, "failed to download file", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, NewDataSourceError(statsArchiveSourceName, ErrCodeNotFound, fmt.Sprintf("file not found: %s", filename), nil)
	}

	return resp.Body, nil
}

// get issues an authenticated GET
func (c *StatsArchiveClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	return c.httpClient.Do(ctx, req)
}

// ArchiveCSVParser parses archive export files
type ArchiveCSVParser struct {
	logger *log.Logger
}

// NewArchiveCSVParser creates a new CSV parser
func NewArchiveCSVParser(logger *log.Logger) *ArchiveCSVParser {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ArchiveCSVParser{logger: logger}
}

// ParseReader parses one archive CSV. The header's fixed columns identify the
// record; every remaining column becomes a stat field. Values stay strings;
// numeric coercion happens at the validation boundary.
func (p *ArchiveCSVParser) ParseReader(reader io.Reader) ([]StatRecordData, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columnIndex := make(map[string]int, len(header))
	for i, name := range header {
		columnIndex[strings.TrimSpace(name)] = i
	}

	for _, required := range statArchiveColumns {
		if _, ok := columnIndex[required]; !ok {
			return nil, fmt.Errorf("CSV missing required column %q", required)
		}
	}

	var statColumns []string
	for _, name := range header {
		trimmed := strings.TrimSpace(name)
		if !isFixedArchiveColumn(trimmed) {
			statColumns = append(statColumns, trimmed)
		}
	}

	var records []StatRecordData
	fetchedAt := time.Now().UTC()
	line := 1

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			p.logger.Printf("Skipping malformed CSV row %d: %v", line, err)
			continue
		}

		record, err := p.parseRow(row, columnIndex, statColumns, fetchedAt)
		if err != nil {
			p.logger.Printf("Skipping CSV row %d: %v", line, err)
			continue
		}

		records = append(records, *record)
	}

	return records, nil
}

// parseRow converts one CSV row into a StatRecordData
func (p *ArchiveCSVParser) parseRow(row []string, columnIndex map[string]int, statColumns []string, fetchedAt time.Time) (*StatRecordData, error) {
	field := func(name string) string {
		idx := columnIndex[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	playerID := field("player_id")
	if playerID == "" {
		return nil, fmt.Errorf("missing player_id")
	}

	gameTimeRaw := field("game_time")
	gameTime, err := time.Parse(time.RFC3339, gameTimeRaw)
	if err != nil {
		gameTime, err = time.Parse("2006-01-02", gameTimeRaw)
		if err != nil {
			return nil, fmt.Errorf("unparseable game_time %q", gameTimeRaw)
		}
	}

	var isHome *bool
	switch strings.ToLower(field("is_home")) {
	case "true", "t", "1", "yes":
		v := true
		isHome = &v
	case "false", "f", "0", "no":
		v := false
		isHome = &v
	}

	statFields := make(map[string]interface{}, len(statColumns))
	for _, name := range statColumns {
		if value := field(name); value != "" {
			statFields[name] = value
		}
	}

	return &StatRecordData{
		SourceID:    field("record_id"),
		AthleteRef:  playerID,
		AthleteName: field("player_name"),
		Team:        field("team"),
		Opponent:    field("opponent"),
		GameRef:     field("game_id"),
		GameTime:    gameTime.UTC(),
		Season:      field("season"),
		IsHome:      isHome,
		StatFields:  statFields,
		FetchedAt:   fetchedAt,
	}, nil
}

// isFixedArchiveColumn reports whether the column is part of the record identity
func isFixedArchiveColumn(name string) bool {
	for _, fixed := range statArchiveColumns {
		if name == fixed {
			return true
		}
	}
	return false
}
