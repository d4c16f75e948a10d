//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/test/helpers"
)

func newStatsFeedClient(baseURL string) *datasource.StatsFeedClient {
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Source:            "statsfeed",
		Timeout:           2 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      10 * time.Millisecond,
		RetryWaitMax:      20 * time.Millisecond,
		RateLimit:         100,
		CircuitBreakerMax: 10,
	}, nil)

	return datasource.NewStatsFeedClient(httpClient, baseURL, "test-key", true, nil)
}

func assertDataSourceCode(t *testing.T, err error, code string) {
	t.Helper()

	var dsErr datasource.DataSourceError
	require.ErrorAs(t, err, &dsErr)
	assert.Equal(t, "statsfeed", dsErr.Source)
	assert.Equal(t, code, dsErr.Code)
}

// TestStatsFeedGameStats tests box score retrieval over the date range endpoint
func TestStatsFeedGameStats(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	server := helpers.MockStatsFeedServer(t)
	defer server.Close()

	client := newStatsFeedClient(server.URL)
	ctx := context.Background()

	records, err := client.FetchGameStats(ctx, time.Now().AddDate(0, 0, -2), time.Now())
	require.NoError(t, err)
	require.Len(t, records, 2)

	betts := records[0]
	assert.Equal(t, "mlb-605141", betts.AthleteRef)
	assert.Equal(t, "Mookie Betts", betts.AthleteName)
	assert.Equal(t, "Los Angeles Dodgers", betts.Team)
	assert.Equal(t, "San Diego Padres", betts.Opponent)
	assert.Equal(t, "sf-game-001", betts.GameRef)
	assert.Equal(t, "2025", betts.Season)
	require.NotNil(t, betts.IsHome)
	assert.True(t, *betts.IsHome)
	assert.EqualValues(t, 2, betts.StatFields["hits"])
	assert.EqualValues(t, 6, betts.StatFields["total_bases"])

	assert.Equal(t, "mlb-660271", records[1].AthleteRef)
}

// TestStatsFeedAthleteGameLog tests the single athlete game log endpoint
func TestStatsFeedAthleteGameLog(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	server := helpers.MockStatsFeedServer(t)
	defer server.Close()

	client := newStatsFeedClient(server.URL)
	ctx := context.Background()

	records, err := client.FetchAthleteGameLog(ctx, "mlb-605141", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "mlb-605141", records[0].AthleteRef)
	assert.Equal(t, "Arizona Diamondbacks", records[0].Opponent)
	require.NotNil(t, records[0].IsHome)
	assert.False(t, *records[0].IsHome)

	// Missing athlete ref is rejected before any request goes out
	_, err = client.FetchAthleteGameLog(ctx, "", 10)
	assertDataSourceCode(t, err, datasource.ErrCodeInvalidData)
}

// TestStatsFeedSchedule tests upcoming game retrieval
func TestStatsFeedSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	server := helpers.MockStatsFeedServer(t)
	defer server.Close()

	client := newStatsFeedClient(server.URL)

	games, err := client.FetchSchedule(context.Background(), time.Now(), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, games, 1)

	game := games[0]
	assert.Equal(t, "sf-game-002", game.SourceID)
	assert.Equal(t, "Los Angeles Dodgers", game.HomeTeam)
	assert.Equal(t, "San Francisco Giants", game.AwayTeam)
	assert.Equal(t, "Dodger Stadium", game.Venue)
	assert.Equal(t, "scheduled", game.Status)
	assert.Equal(t, "2025", game.Season)
}

// TestStatsFeedAuthHeaders tests that requests carry the API key
func TestStatsFeedAuthHeaders(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode([]datasource.StatsFeedStatLine{})
	}))
	defer server.Close()

	client := newStatsFeedClient(server.URL)

	records, err := client.FetchGameStats(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestStatsFeedErrorMapping tests provider status code to error code mapping
func TestStatsFeedErrorMapping(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	tests := []struct {
		name       string
		statusCode int
		body       string
		wantCode   string
	}{
		{"Invalid API key", http.StatusUnauthorized, `{}`, datasource.ErrCodeAuthenticationFailed},
		{"Unknown athlete", http.StatusNotFound, `{}`, datasource.ErrCodeNotFound},
		{"Malformed payload", http.StatusOK, `{not json`, datasource.ErrCodeInvalidData},
		// Retryable statuses surface as network errors once retries run out
		{"Provider outage", http.StatusInternalServerError, `upstream down`, datasource.ErrCodeNetworkError},
		{"Throttled", http.StatusTooManyRequests, `{}`, datasource.ErrCodeNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newStatsFeedClient(server.URL)

			_, err := client.FetchGameStats(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
			assertDataSourceCode(t, err, tt.wantCode)

			if tt.wantCode == datasource.ErrCodeNetworkError {
				assert.GreaterOrEqual(t, client.FailureStreak(), 1)
			}
		})
	}
}

// TestStatsFeedDisabled tests that a disabled source refuses to fetch
func TestStatsFeedDisabled(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Source:    "statsfeed",
		Timeout:   time.Second,
		RateLimit: 100,
	}, nil)
	client := datasource.NewStatsFeedClient(httpClient, server.URL, "test-key", false, nil)

	ctx := context.Background()
	assert.False(t, client.IsEnabled())

	_, err := client.FetchGameStats(ctx, time.Now().AddDate(0, 0, -1), time.Now())
	assert.Error(t, err)

	_, err = client.FetchAthleteGameLog(ctx, "mlb-605141", 5)
	assert.Error(t, err)

	_, err = client.FetchSchedule(ctx, time.Now(), time.Now().AddDate(0, 0, 1))
	assert.Error(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&requestCount))
}

// TestStatsFeedSkipsBadRows tests that unconvertible rows are dropped, not fatal
func TestStatsFeedSkipsBadRows(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	rows := []map[string]interface{}{
		{
			"id": "row-1", "playerId": "mlb-605141", "playerName": "Mookie Betts",
			"team": "Los Angeles Dodgers", "opponent": "San Diego Padres",
			"gameId": "g-1", "gameTime": "2025-06-13T19:10:00Z", "season": "2025",
			"stats": map[string]interface{}{"hits": 2},
		},
		{
			// Bare date, as some feeds report for final box scores
			"id": "row-2", "playerId": "mlb-660271", "playerName": "Shohei Ohtani",
			"team": "Los Angeles Dodgers", "opponent": "San Diego Padres",
			"gameId": "g-1", "gameTime": "2025-06-14", "season": "2025",
			"stats": map[string]interface{}{"hits": 1},
		},
		{
			"id": "row-3", "playerId": "", "playerName": "No Ref",
			"gameTime": "2025-06-13T19:10:00Z",
		},
		{
			"id": "row-4", "playerId": "mlb-123456", "playerName": "Bad Clock",
			"gameTime": "yesterday-ish",
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(rows)
	}))
	defer server.Close()

	client := newStatsFeedClient(server.URL)

	records, err := client.FetchGameStats(context.Background(), time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "mlb-605141", records[0].AthleteRef)
	assert.Equal(t, "mlb-660271", records[1].AthleteRef)
	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), records[1].GameTime)
}

// TestConcurrentStatFetches tests concurrent game log requests
func TestConcurrentStatFetches(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	var requestCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requestCount, 1)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode([]datasource.StatsFeedStatLine{
			{
				ID: "row-1", PlayerID: "mlb-605141", PlayerName: "Mookie Betts",
				Team: "Los Angeles Dodgers", Opponent: "San Diego Padres",
				GameID: "g-1", GameTime: "2025-06-13T19:10:00Z", Season: "2025",
				Stats: map[string]interface{}{"hits": 2},
			},
		})
	}))
	defer server.Close()

	client := newStatsFeedClient(server.URL)
	ctx := context.Background()

	concurrency := 10
	results := make(chan error, concurrency)

	startTime := time.Now()
	for i := 0; i < concurrency; i++ {
		go func() {
			_, err := client.FetchAthleteGameLog(ctx, "mlb-605141", 5)
			results <- err
		}()
	}

	for i := 0; i < concurrency; i++ {
		require.NoError(t, <-results)
	}

	duration := time.Since(startTime)
	assert.Equal(t, int32(concurrency), atomic.LoadInt32(&requestCount))
	t.Logf("✓ Concurrent stat fetches validated (%d requests in %v)", concurrency, duration)
}
