package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourusername/prop-insight/internal/metrics"
)

// ErrSourcePaused is returned while the circuit breaker holds a source paused
var ErrSourcePaused = errors.New("data source paused after repeated failures")

// HTTPClientConfig holds configuration for HTTP clients
type HTTPClientConfig struct {
	Source            string // Metric label for the provider behind this client
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	Burst             int
	CircuitBreakerMax int           // max consecutive failures before pausing
	PauseDuration     time.Duration // how long a paused source stays paused
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Source:            "default",
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         10.0,
		Burst:             1,
		CircuitBreakerMax: 5,
		PauseDuration:     5 * time.Minute,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and a
// consecutive-failure pause
type RateLimitedHTTPClient struct {
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	source            string
	circuitBreakerMax int
	pauseDuration     time.Duration
	logger            *log.Logger

	mu                sync.Mutex
	consecutiveErrors int
	pausedUntil       time.Time
	lastError         error
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *log.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.PauseDuration <= 0 {
		cfg.PauseDuration = 5 * time.Minute
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	retryClient.Logger = logger

	return &RateLimitedHTTPClient{
		client:            retryClient,
		limiter:           rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		source:            cfg.Source,
		circuitBreakerMax: cfg.CircuitBreakerMax,
		pauseDuration:     cfg.PauseDuration,
		logger:            logger,
	}
}

// Do executes an HTTP request with rate limiting and failure tracking
func (c *RateLimitedHTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.checkPaused(); err != nil {
		return nil, err
	}

	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap request: %w", err)
	}

	resp, err := c.client.Do(retryReq)
	if err != nil {
		c.recordFailure(err)
		return nil, err
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(fmt.Errorf("server returned status %d", resp.StatusCode))
	} else {
		c.recordSuccess()
	}

	return resp, nil
}

// checkPaused reports ErrSourcePaused while the pause window is active
func (c *RateLimitedHTTPClient) checkPaused() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pausedUntil.IsZero() {
		return nil
	}

	if time.Now().Before(c.pausedUntil) {
		return fmt.Errorf("%w: %s until %s (last error: %v)",
			ErrSourcePaused, c.source, c.pausedUntil.Format(time.RFC3339), c.lastError)
	}

	// Pause window elapsed, allow traffic again
	c.pausedUntil = time.Time{}
	c.consecutiveErrors = 0
	metrics.UpdateProviderFailureStreak(c.source, 0)
	c.logger.Printf("Data source %s resumed after pause", c.source)
	return nil
}

func (c *RateLimitedHTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveErrors++
	c.lastError = err
	metrics.UpdateProviderFailureStreak(c.source, float64(c.consecutiveErrors))

	if c.consecutiveErrors >= c.circuitBreakerMax && c.pausedUntil.IsZero() {
		c.pausedUntil = time.Now().Add(c.pauseDuration)
		metrics.RecordDataSourcePause()
		c.logger.Printf("Data source %s paused for %s after %d consecutive errors: %v",
			c.source, c.pauseDuration, c.consecutiveErrors, err)
	}
}

func (c *RateLimitedHTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consecutiveErrors > 0 {
		c.consecutiveErrors = 0
		metrics.UpdateProviderFailureStreak(c.source, 0)
	}
}

// FailureStreak returns the current consecutive failure count
func (c *RateLimitedHTTPClient) FailureStreak() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutiveErrors
}

// IsPaused reports whether the client is currently refusing requests
func (c *RateLimitedHTTPClient) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.pausedUntil.IsZero() && time.Now().Before(c.pausedUntil)
}

// Get executes a GET request
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post executes a POST request
func (c *RateLimitedHTTPClient) Post(ctx context.Context, url string, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			// Retry on network errors
			return true, err
		}

		// Retry on rate limit (429) and transient server errors
		if resp.StatusCode == 429 || resp.StatusCode == 500 || resp.StatusCode == 502 || resp.StatusCode == 503 || resp.StatusCode == 504 {
			return true, nil
		}

		// Don't retry on client errors (4xx) except 429
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return false, nil
		}

		return false, nil
	}
}
