package oddsfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/yourusername/prop-insight/internal/config"
)

// AuthService handles lines API session management
type AuthService struct {
	client *OddsFeedClient
	logger *log.Logger
}

// LoginResponse represents the response from session creation
type LoginResponse struct {
	SessionToken     string `json:"sessionToken"`
	LoginStatus      string `json:"loginStatus"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
}

// NewAuthService creates a new auth service
func NewAuthService(client *OddsFeedClient, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &AuthService{
		client: client,
		logger: logger,
	}
}

// Login opens a session with the lines API
func (a *AuthService) Login(ctx context.Context) error {
	cfg := a.client.GetConfig()

	a.logger.Printf("Opening lines API session")

	loginResp, err := a.loginInternal(ctx, cfg)
	if err != nil {
		RecordAuthenticationFailure()
		return NewAuthenticationError("login request failed", err)
	}

	if loginResp.LoginStatus != "SUCCESS" {
		RecordAuthenticationFailure()
		return NewAuthenticationError(fmt.Sprintf("login failed: %s", loginResp.LoginStatus), nil)
	}

	if loginResp.SessionToken == "" {
		RecordAuthenticationFailure()
		return NewAuthenticationError("no session token in response", nil)
	}

	// Sessions default to 12 hours when the feed omits an expiry
	ttl := 12 * time.Hour
	if loginResp.ExpiresInSeconds > 0 {
		ttl = time.Duration(loginResp.ExpiresInSeconds) * time.Second
	}
	a.client.SetSessionToken(loginResp.SessionToken, time.Now().Add(ttl))

	a.logger.Printf("Login successful, session token obtained")
	return nil
}

// RefreshSession refreshes the session token before expiration
func (a *AuthService) RefreshSession(ctx context.Context) error {
	if !a.client.NeedsRefresh() {
		a.logger.Printf("Session token does not need refresh yet")
		return nil
	}

	a.logger.Printf("Refreshing session token")
	RecordSessionRefresh()

	// Re-authenticate to get a new token
	return a.Login(ctx)
}

// Logout invalidates the current session
func (a *AuthService) Logout(ctx context.Context) error {
	a.logger.Printf("Closing lines API session")

	a.client.SetSessionToken("", time.Time{})

	a.logger.Printf("Logout complete")
	return nil
}

// loginInternal performs the actual session creation request
func (a *AuthService) loginInternal(ctx context.Context, cfg *config.OddsFeedConfig) (*LoginResponse, error) {
	loginURL := fmt.Sprintf("%s/session", cfg.APIURL)

	body, err := json.Marshal(map[string]string{"apiKey": cfg.APIKey})
	if err != nil {
		return nil, err
	}

	a.logger.Printf("Sending login request to: %s", loginURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	// The session endpoint sits outside the rate-limited JSON-RPC path
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, err
	}

	return &loginResp, nil
}
