package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const statsFeedSourceName = "statsfeed"

// StatsFeedClient implements DataSource for the StatsFeed box score API
type StatsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// StatsFeedStatLine represents one player box score row from the StatsFeed API
type StatsFeedStatLine struct {
	ID         string                 `json:"id"`
	PlayerID   string                 `json:"playerId"`
	PlayerName string                 `json:"playerName"`
	Team       string                 `json:"team"`
	Opponent   string                 `json:"opponent"`
	GameID     string                 `json:"gameId"`
	GameTime   string                 `json:"gameTime"`
	Season     string                 `json:"season"`
	Home       *bool                  `json:"home"`
	Stats      map[string]interface{} `json:"stats"`
}

// StatsFeedGame represents a scheduled game from the StatsFeed API
type StatsFeedGame struct {
	ID            string `json:"id"`
	Season        string `json:"season"`
	ScheduledTime string `json:"scheduledTime"`
	HomeTeam      string `json:"homeTeam"`
	AwayTeam      string `json:"awayTeam"`
	Venue         string `json:"venue"`
	Status        string `json:"status"`
}

// NewStatsFeedClient creates a new StatsFeed API client
func NewStatsFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *StatsFeedClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StatsFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchGameStats retrieves stat lines for games in the date range
func (c *StatsFeedClient) FetchGameStats(ctx context.Context, startDate, endDate time.Time) ([]StatRecordData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/stats?from=%s&to=%s", c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	lines, err := c.fetchStatLines(ctx, url)
	if err != nil {
		return nil, err
	}

	return c.convertStatLines(lines), nil
}

// FetchAthleteGameLog retrieves recent stat lines for a single athlete
func (c *StatsFeedClient) FetchAthleteGameLog(ctx context.Context, athleteRef string, limit int) ([]StatRecordData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}
	if athleteRef == "" {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeInvalidData, "athlete ref is required", nil)
	}

	url := fmt.Sprintf("%s/players/%s/gamelog?limit=%d", c.baseURL, athleteRef, limit)

	lines, err := c.fetchStatLines(ctx, url)
	if err != nil {
		return nil, err
	}

	return c.convertStatLines(lines), nil
}

// FetchSchedule retrieves games scheduled in the date range
func (c *StatsFeedClient) FetchSchedule(ctx context.Context, startDate, endDate time.Time) ([]GameData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	url := fmt.Sprintf("%s/schedule?from=%s&to=%s", c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var sfGames []StatsFeedGame
	if err := json.NewDecoder(resp.Body).Decode(&sfGames); err != nil {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	games := make([]GameData, 0, len(sfGames))
	for _, sfGame := range sfGames {
		game, err := c.convertGame(&sfGame)
		if err != nil {
			c.logger.Printf("Failed to convert game %s: %v", sfGame.ID, err)
			continue
		}
		games = append(games, *game)
	}

	return games, nil
}

// Name returns the data source name
func (c *StatsFeedClient) Name() string {
	return statsFeedSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *StatsFeedClient) IsEnabled() bool {
	return c.enabled
}

// FailureStreak returns the transport's consecutive failure count
func (c *StatsFeedClient) FailureStreak() int {
	return c.httpClient.FailureStreak()
}

// fetchStatLines executes a stat line request and decodes the payload
func (c *StatsFeedClient) fetchStatLines(ctx context.Context, url string) ([]StatsFeedStatLine, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeNetworkError, "failed to fetch stat lines", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var lines []StatsFeedStatLine
	if err := json.NewDecoder(resp.Body).Decode(&lines); err != nil {
		return nil, NewDataSourceError(statsFeedSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return lines, nil
}

// get issues an authenticated GET
func (c *StatsFeedClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(ctx, req)
}

// checkStatus maps provider status codes to typed errors
func (c *StatsFeedClient) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(statsFeedSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(statsFeedSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(statsFeedSourceName, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(statsFeedSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
	return nil
}

// convertStatLines converts provider rows, skipping the unconvertible ones
func (c *StatsFeedClient) convertStatLines(lines []StatsFeedStatLine) []StatRecordData {
	records := make([]StatRecordData, 0, len(lines))
	for _, line := range lines {
		record, err := c.convertStatLine(&line)
		if err != nil {
			c.logger.Printf("Failed to convert stat line %s: %v", line.ID, err)
			continue
		}
		records = append(records, *record)
	}
	return records
}

// convertStatLine converts StatsFeed format to StatRecordData
func (c *StatsFeedClient) convertStatLine(line *StatsFeedStatLine) (*StatRecordData, error) {
	if line.PlayerID == "" {
		return nil, fmt.Errorf("stat line %s missing player id", line.ID)
	}

	gameTime, err := time.Parse(time.RFC3339, line.GameTime)
	if err != nil {
		// Some feeds report bare dates for final box scores
		gameTime, err = time.Parse("2006-01-02", line.GameTime)
		if err != nil {
			return nil, fmt.Errorf("unparseable game time %q: %w", line.GameTime, err)
		}
	}

	return &StatRecordData{
		SourceID:    line.ID,
		AthleteRef:  line.PlayerID,
		AthleteName: line.PlayerName,
		Team:        line.Team,
		Opponent:    line.Opponent,
		GameRef:     line.GameID,
		GameTime:    gameTime.UTC(),
		Season:      line.Season,
		IsHome:      line.Home,
		StatFields:  line.Stats,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// convertGame converts StatsFeed format to GameData
func (c *StatsFeedClient) convertGame(sfGame *StatsFeedGame) (*GameData, error) {
	scheduled, err := time.Parse(time.RFC3339, sfGame.ScheduledTime)
	if err != nil {
		return nil, fmt.Errorf("unparseable scheduled time %q: %w", sfGame.ScheduledTime, err)
	}

	if sfGame.HomeTeam == "" || sfGame.AwayTeam == "" {
		return nil, fmt.Errorf("game %s missing team names", sfGame.ID)
	}

	return &GameData{
		SourceID:       sfGame.ID,
		Season:         sfGame.Season,
		ScheduledStart: scheduled.UTC(),
		HomeTeam:       sfGame.HomeTeam,
		AwayTeam:       sfGame.AwayTeam,
		Venue:          sfGame.Venue,
		Status:         sfGame.Status,
		FetchedAt:      time.Now().UTC(),
	}, nil
}
