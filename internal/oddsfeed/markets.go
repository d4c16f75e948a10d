package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-insight/internal/models"
)

// PropMarketCatalog represents one posted prop market on the feed
type PropMarketCatalog struct {
	MarketID       string    `json:"marketId"`
	Market         string    `json:"market"`
	AthleteRef     string    `json:"athleteRef"`
	AthleteName    string    `json:"athleteName"`
	Team           string    `json:"team"`
	GameRef        string    `json:"gameRef"`
	ScheduledStart time.Time `json:"scheduledStart"`
	Status         string    `json:"status"`
}

// MarketLines represents current posted lines for a prop market
type MarketLines struct {
	MarketID string     `json:"marketId"`
	Status   string     `json:"status"`
	Lines    []BookLine `json:"lines"`
	Version  int64      `json:"version"`
}

// BookLine represents one sportsbook's posted line and prices
type BookLine struct {
	Book       string     `json:"book"`
	Line       float64    `json:"line"`
	OverPrice  float64    `json:"overPrice"`
	UnderPrice float64    `json:"underPrice"`
	Suspended  bool       `json:"suspended"`
	LastChange *time.Time `json:"lastChange"`
}

// PropMarketFilter filters the market catalog listing
type PropMarketFilter struct {
	Date        string   `json:"date,omitempty"`
	Markets     []string `json:"markets,omitempty"`
	Books       []string `json:"books,omitempty"`
	AthleteRefs []string `json:"athleteRefs,omitempty"`
	GameRefs    []string `json:"gameRefs,omitempty"`
	Status      string   `json:"status,omitempty"`
}

// ListPropMarkets fetches the prop market catalog for a slate date
func (c *OddsFeedClient) ListPropMarkets(
	ctx context.Context,
	date time.Time,
	markets []string,
	maxResults int,
) ([]PropMarketCatalog, error) {
	if maxResults <= 0 || maxResults > 1000 {
		maxResults = 100
	}

	filter := PropMarketFilter{
		Date:    date.Format("2006-01-02"),
		Markets: markets,
	}

	params := map[string]interface{}{
		"filter":     filter,
		"sort":       "FIRST_TO_START",
		"maxResults": maxResults,
	}

	result, err := c.makeRequest(ctx, "listPropMarkets", params)
	if err != nil {
		c.logger.Printf("Failed to list prop markets: %v", err)
		return nil, err
	}

	var catalogs []PropMarketCatalog
	if err := json.Unmarshal(result, &catalogs); err != nil {
		return nil, fmt.Errorf("failed to parse prop market response: %w", err)
	}

	RecordMarketsListed(len(catalogs))
	c.logger.Printf("Retrieved %d prop markets", len(catalogs))
	return catalogs, nil
}

// ListTodaysPropMarkets fetches prop markets for today's slate
func (c *OddsFeedClient) ListTodaysPropMarkets(ctx context.Context, markets []string) ([]PropMarketCatalog, error) {
	return c.ListPropMarkets(ctx, time.Now().UTC(), markets, 1000)
}

// ListMarketLines fetches current posted lines for the given markets
func (c *OddsFeedClient) ListMarketLines(
	ctx context.Context,
	marketIDs []string,
	books []string,
) ([]MarketLines, error) {
	if len(marketIDs) == 0 {
		return nil, fmt.Errorf("at least one market ID required")
	}

	if len(books) == 0 {
		books = c.config.Sportsbooks
	}

	params := map[string]interface{}{
		"marketIds": marketIDs,
		"books":     books,
	}

	result, err := c.makeRequest(ctx, "listMarketLines", params)
	if err != nil {
		c.logger.Printf("Failed to list market lines: %v", err)
		return nil, err
	}

	var lines []MarketLines
	if err := json.Unmarshal(result, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse market lines response: %w", err)
	}

	RecordLinesFetched(len(lines))
	c.logger.Printf("Retrieved lines for %d markets", len(lines))
	return lines, nil
}

// GetLatestLines returns line snapshots per book for a single prop market.
// The caller supplies the resolved athlete ID; the feed only knows its own refs.
func (c *OddsFeedClient) GetLatestLines(
	ctx context.Context,
	marketID string,
	market string,
	athleteID uuid.UUID,
) (map[string]*models.PropLine, error) {
	marketLines, err := c.ListMarketLines(ctx, []string{marketID}, nil)
	if err != nil {
		return nil, err
	}

	if len(marketLines) == 0 {
		return nil, fmt.Errorf("no line data returned for market %s", marketID)
	}

	now := time.Now()
	snapshots := make(map[string]*models.PropLine)

	for _, bookLine := range marketLines[0].Lines {
		if bookLine.Suspended {
			continue
		}

		snapshots[bookLine.Book] = &models.PropLine{
			Time:       now,
			AthleteID:  athleteID,
			Market:     market,
			Line:       bookLine.Line,
			OverPrice:  decimal.NewFromFloat(bookLine.OverPrice),
			UnderPrice: decimal.NewFromFloat(bookLine.UnderPrice),
			Book:       bookLine.Book,
		}
	}

	return snapshots, nil
}
