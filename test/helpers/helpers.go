package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/database"
)

// SetupTestDB creates a test database connection pool. The schema is
// expected to be in place already (migrate CLI against the test database).
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	port, err := strconv.Atoi(GetEnvOrDefault("TEST_DB_PORT", "5432"))
	require.NoError(t, err, "invalid TEST_DB_PORT")

	cfg := &config.DatabaseConfig{
		Host:               GetEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:               port,
		Name:               GetEnvOrDefault("TEST_DB_NAME", "prop_insight_test"),
		User:               GetEnvOrDefault("TEST_DB_USER", "test"),
		Password:           GetEnvOrDefault("TEST_DB_PASSWORD", "test"),
		SSLMode:            "disable",
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	// Verify connection
	err = db.Ping(ctx)
	require.NoError(t, err, "failed to ping test database")

	return db
}

// TeardownTestDB truncates test data and closes the connection pool.
func TeardownTestDB(t *testing.T, db *database.DB) {
	t.Helper()

	CleanupDatabase(t, db)
	db.Close()
}

// LoadFixture loads test data from a JSON fixture file.
func LoadFixture(t *testing.T, filename string, target interface{}) {
	t.Helper()

	fixturePath := filepath.Join("test", "fixtures", filename)
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err, "failed to read fixture file: %s", filename)

	err = json.Unmarshal(data, target)
	require.NoError(t, err, "failed to unmarshal fixture: %s", filename)
}

// LoadAthleteFixtures loads athlete test data from fixtures.
func LoadAthleteFixtures(t *testing.T) []map[string]interface{} {
	t.Helper()

	var athletes []map[string]interface{}
	LoadFixture(t, "athletes.json", &athletes)
	return athletes
}

// LoadGameStatFixtures loads box score test data.
func LoadGameStatFixtures(t *testing.T) []map[string]interface{} {
	t.Helper()

	var stats []map[string]interface{}
	LoadFixture(t, "game_stats.json", &stats)
	return stats
}

// LoadPropLineFixtures loads prop line snapshot test data.
func LoadPropLineFixtures(t *testing.T) []map[string]interface{} {
	t.Helper()

	var lines []map[string]interface{}
	LoadFixture(t, "prop_lines.json", &lines)
	return lines
}

// LoadOutcomeFixtures loads graded outcome test data.
func LoadOutcomeFixtures(t *testing.T) []map[string]interface{} {
	t.Helper()

	var outcomes []map[string]interface{}
	LoadFixture(t, "prop_outcomes.json", &outcomes)
	return outcomes
}

// MockStatsFeedServer creates a mock HTTP server for the box score API.
func MockStatsFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/stats":
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"id":         "sf-line-001",
					"playerId":   "mlb-605141",
					"playerName": "Mookie Betts",
					"team":       "Los Angeles Dodgers",
					"opponent":   "San Diego Padres",
					"gameId":     "sf-game-001",
					"gameTime":   time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339),
					"season":     "2025",
					"home":       true,
					"stats": map[string]interface{}{
						"hits":        2,
						"home_runs":   1,
						"rbis":        3,
						"total_bases": 6,
					},
				},
				{
					"id":         "sf-line-002",
					"playerId":   "mlb-660271",
					"playerName": "Shohei Ohtani",
					"team":       "Los Angeles Dodgers",
					"opponent":   "San Diego Padres",
					"gameId":     "sf-game-001",
					"gameTime":   time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339),
					"season":     "2025",
					"home":       true,
					"stats": map[string]interface{}{
						"hits":        1,
						"home_runs":   0,
						"rbis":        0,
						"total_bases": 1,
					},
				},
			})

		case r.URL.Path == "/schedule":
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"id":            "sf-game-002",
					"season":        "2025",
					"scheduledTime": time.Now().UTC().Add(6 * time.Hour).Format(time.RFC3339),
					"homeTeam":      "Los Angeles Dodgers",
					"awayTeam":      "San Francisco Giants",
					"venue":         "Dodger Stadium",
					"status":        "scheduled",
				},
			})

		case strings.HasPrefix(r.URL.Path, "/players/") && strings.HasSuffix(r.URL.Path, "/gamelog"):
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"id":         "sf-line-003",
					"playerId":   strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/players/"), "/gamelog"),
					"playerName": "Mookie Betts",
					"team":       "Los Angeles Dodgers",
					"opponent":   "Arizona Diamondbacks",
					"gameId":     "sf-game-000",
					"gameTime":   time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339),
					"season":     "2025",
					"home":       false,
					"stats": map[string]interface{}{
						"hits":        3,
						"home_runs":   0,
						"rbis":        1,
						"total_bases": 4,
					},
				},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return httptest.NewServer(handler)
}

// MockOddsFeedServer creates a mock HTTP server for the prop lines API.
// Session creation is a plain POST; everything else is JSON-RPC on the root.
func MockOddsFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session" {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sessionToken":     "mock-session-token",
				"loginStatus":      "SUCCESS",
				"expiresInSeconds": 43200,
			})
			return
		}

		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var result interface{}
		switch req.Method {
		case "listPropMarkets":
			result = []map[string]interface{}{
				{
					"marketId":       "pm-hits-001",
					"market":         "hits",
					"athleteRef":     "mlb-605141",
					"athleteName":    "Mookie Betts",
					"team":           "Los Angeles Dodgers",
					"gameRef":        "sf-game-002",
					"scheduledStart": time.Now().UTC().Add(6 * time.Hour).Format(time.RFC3339),
					"status":         "OPEN",
				},
				{
					"marketId":       "pm-tb-001",
					"market":         "total_bases",
					"athleteRef":     "mlb-660271",
					"athleteName":    "Shohei Ohtani",
					"team":           "Los Angeles Dodgers",
					"gameRef":        "sf-game-002",
					"scheduledStart": time.Now().UTC().Add(6 * time.Hour).Format(time.RFC3339),
					"status":         "OPEN",
				},
			}

		case "listMarketLines":
			result = []map[string]interface{}{
				{
					"marketId": "pm-hits-001",
					"status":   "OPEN",
					"version":  1,
					"lines": []map[string]interface{}{
						{
							"book":       "draftkings",
							"line":       1.5,
							"overPrice":  1.87,
							"underPrice": 1.95,
							"suspended":  false,
						},
						{
							"book":       "fanduel",
							"line":       1.5,
							"overPrice":  1.91,
							"underPrice": 1.91,
							"suspended":  false,
						},
					},
				},
			}

		default:
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"error": map[string]interface{}{
					"code":    -32601,
					"message": "method not supported",
					"data":    "UNSUPPORTED_MARKET",
				},
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	})

	return httptest.NewServer(handler)
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	require.Fail(t, "condition not met within timeout", message)
}

// AssertEventuallyTrue retries an assertion until it passes or times out.
func AssertEventuallyTrue(t *testing.T, timeout time.Duration, assertion func() bool, message string) {
	t.Helper()

	WaitForCondition(t, timeout, assertion, message)
}

// CleanupDatabase truncates all test tables.
func CleanupDatabase(t *testing.T, db *database.DB) {
	t.Helper()

	tables := []string{
		"prop_outcomes",
		"prop_predictions",
		"prop_lines",
		"game_stats",
		"evaluation_results",
		"market_performance",
		"games",
		"athletes",
	}

	for _, table := range tables {
		_, err := db.GetPool().Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// InsertTestAthlete inserts a test athlete and returns its generated ID.
func InsertTestAthlete(t *testing.T, db *database.DB, athlete map[string]interface{}) uuid.UUID {
	t.Helper()

	query := `
		INSERT INTO athletes (id, external_ref, full_name, team, position, aliases, active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
	`

	aliases := athlete["aliases"]
	if aliases == nil {
		aliases = []byte(`[]`)
	}

	id := uuid.New()
	_, err := db.GetPool().Exec(
		context.Background(),
		query,
		id,
		athlete["external_ref"],
		athlete["full_name"],
		athlete["team"],
		athlete["position"],
		aliases,
	)

	require.NoError(t, err, "failed to insert test athlete")
	return id
}

// InsertTestGame inserts a test game and returns its generated ID.
func InsertTestGame(t *testing.T, db *database.DB, game map[string]interface{}) uuid.UUID {
	t.Helper()

	query := `
		INSERT INTO games (id, external_ref, season, scheduled_start, home_team, away_team, venue, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	id := uuid.New()
	_, err := db.GetPool().Exec(
		context.Background(),
		query,
		id,
		game["external_ref"],
		game["season"],
		game["scheduled_start"],
		game["home_team"],
		game["away_team"],
		game["venue"],
		game["status"],
	)

	require.NoError(t, err, "failed to insert test game")
	return id
}

// InsertTestGameStat inserts a test box score row for an athlete.
func InsertTestGameStat(t *testing.T, db *database.DB, athleteID uuid.UUID, stat map[string]interface{}) {
	t.Helper()

	statFields, err := json.Marshal(stat["stat_fields"])
	require.NoError(t, err, "failed to marshal stat fields")

	query := `
		INSERT INTO game_stats (time, athlete_id, season, opponent, is_home, stat_fields, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = db.GetPool().Exec(
		context.Background(),
		query,
		stat["time"],
		athleteID,
		stat["season"],
		stat["opponent"],
		stat["is_home"],
		statFields,
		stat["source"],
	)

	require.NoError(t, err, "failed to insert test game stat")
}

// InsertTestPropLine inserts a test prop line snapshot for an athlete.
func InsertTestPropLine(t *testing.T, db *database.DB, athleteID uuid.UUID, line map[string]interface{}) {
	t.Helper()

	query := `
		INSERT INTO prop_lines (time, athlete_id, market, line, over_price, under_price, book)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := db.GetPool().Exec(
		context.Background(),
		query,
		line["time"],
		athleteID,
		line["market"],
		line["line"],
		line["over_price"],
		line["under_price"],
		line["book"],
	)

	require.NoError(t, err, "failed to insert test prop line")
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

// SkipIfNoDatabase skips test if the test database is not available.
func SkipIfNoDatabase(t *testing.T) {
	if os.Getenv("SKIP_DB_TESTS") == "true" {
		t.Skip("skipping test - database not available")
	}
}
