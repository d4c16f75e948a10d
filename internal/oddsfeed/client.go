package oddsfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/yourusername/prop-insight/internal/config"
	"github.com/yourusername/prop-insight/internal/datasource"
	"github.com/yourusername/prop-insight/internal/metrics"
)

// OddsFeedClient implements the sportsbook prop lines JSON-RPC client
type OddsFeedClient struct {
	httpClient   *datasource.RateLimitedHTTPClient
	config       *config.OddsFeedConfig
	baseURL      string
	streamURL    string
	sessionToken string
	apiKey       string
	tokenExpiry  time.Time
	mu           sync.RWMutex
	logger       *log.Logger
}

// JSONRPCRequest represents a JSON-RPC request
type JSONRPCRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params"`
	ID      int                    `json:"id"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// JSONRPCError represents a JSON-RPC error
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Error codes for the lines API
const (
	ErrorInvalidSession       = "INVALID_SESSION"
	ErrorUnsupportedMarket    = "UNSUPPORTED_MARKET"
	ErrorUnknownAthlete       = "UNKNOWN_ATHLETE"
	ErrorLineSuspended        = "LINE_SUSPENDED"
	ErrorRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	ErrorSubscriptionExceeded = "SUBSCRIPTION_LIMIT_EXCEEDED"
	ErrorSlateNotAvailable    = "SLATE_NOT_AVAILABLE"
)

// NewOddsFeedClient creates a new lines API client
func NewOddsFeedClient(
	cfg *config.OddsFeedConfig,
	httpClient *datasource.RateLimitedHTTPClient,
	logger *log.Logger,
) *OddsFeedClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &OddsFeedClient{
		httpClient: httpClient,
		config:     cfg,
		baseURL:    cfg.APIURL,
		streamURL:  cfg.StreamURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// makeRequest performs a JSON-RPC request to the lines API
func (c *OddsFeedClient) makeRequest(
	ctx context.Context,
	method string,
	params map[string]interface{},
) (json.RawMessage, error) {
	c.mu.RLock()
	sessionToken := c.sessionToken
	c.mu.RUnlock()

	if sessionToken == "" {
		return nil, NewAuthenticationError("no active session token", nil)
	}

	reqBody := JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("X-Session-Token", sessionToken)

	c.logger.Printf("Making lines API request: %s", method)

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		RecordAPIRequest(time.Since(start), false)
		metrics.RecordIngestRequest("oddsfeed", "error")
		c.logger.Printf("Failed to make request: %v", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var jsonResp JSONRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&jsonResp); err != nil {
		RecordAPIRequest(time.Since(start), false)
		metrics.RecordIngestRequest("oddsfeed", "error")
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if jsonResp.Error != nil {
		RecordAPIRequest(time.Since(start), false)
		metrics.RecordIngestRequest("oddsfeed", "error")
		return nil, MapOddsFeedError(jsonResp.Error.Data, jsonResp.Error.Message, c.logger)
	}

	if resp.StatusCode != http.StatusOK {
		RecordAPIRequest(time.Since(start), false)
		metrics.RecordIngestRequest("oddsfeed", "error")
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	RecordAPIRequest(time.Since(start), true)
	metrics.RecordIngestRequest("oddsfeed", "success")
	return jsonResp.Result, nil
}

// SetSessionToken sets the session token for API requests
func (c *OddsFeedClient) SetSessionToken(token string, expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionToken = token
	c.tokenExpiry = expiry
	c.logger.Printf("Session token updated, expiry: %v", expiry)
}

// GetSessionToken returns the current session token
func (c *OddsFeedClient) GetSessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionToken
}

// IsAuthenticated checks if the client has an active session
func (c *OddsFeedClient) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionToken != "" && time.Now().Before(c.tokenExpiry)
}

// NeedsRefresh checks if the session token needs refreshing
func (c *OddsFeedClient) NeedsRefresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// Refresh if expiry is within 5 minutes
	return time.Now().Add(5 * time.Minute).After(c.tokenExpiry)
}

// GetStreamURL returns the stream API URL
func (c *OddsFeedClient) GetStreamURL() string {
	return c.streamURL
}

// GetAPIKey returns the API key
func (c *OddsFeedClient) GetAPIKey() string {
	return c.apiKey
}

// GetConfig returns the odds feed configuration
func (c *OddsFeedClient) GetConfig() *config.OddsFeedConfig {
	return c.config
}
