package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamClient handles the WebSocket connection to the line movement stream
type StreamClient struct {
	conn             *websocket.Conn
	sessionToken     string
	apiKey           string
	streamURL        string
	mu               sync.RWMutex
	isConnected      bool
	stopped          bool
	reconnecting     bool
	handlers         []MessageHandler
	reconnectConfig  ReconnectConfig
	lastSubscription map[string]interface{}
	lastMessageTime  time.Time
	logger           *log.Logger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// MessageHandler is called when a message is received from the stream
type MessageHandler func(msg interface{}) error

// StreamMessage represents a message from the line movement stream
type StreamMessage struct {
	Op               string       `json:"op"`
	ID               int          `json:"id,omitempty"`
	Status           int          `json:"status,omitempty"`
	ConnectionID     string       `json:"connectionId,omitempty"`
	ConnectionClosed bool         `json:"connectionClosed,omitempty"`
	LineChanges      []LineChange `json:"lc,omitempty"`
}

// LineChange represents one prop market's line movement in a stream message
type LineChange struct {
	MarketID   string           `json:"id"`
	AthleteRef string           `json:"ath"`
	Market     string           `json:"mkt"`
	FullImage  bool             `json:"img"`
	Books      []BookLineChange `json:"bk"`
	Heartbeat  bool             `json:"heartbeat"`
}

// BookLineChange represents one book's updated line and prices
type BookLineChange struct {
	Book       string  `json:"b"`
	Line       float64 `json:"ln"`
	OverPrice  float64 `json:"o"`
	UnderPrice float64 `json:"u"`
	Suspended  bool    `json:"sus"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewStreamClient creates a new stream client
func NewStreamClient(
	sessionToken string,
	apiKey string,
	streamURL string,
	logger *log.Logger,
) *StreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StreamClient{
		sessionToken:    sessionToken,
		apiKey:          apiKey,
		streamURL:       streamURL,
		handlers:        make([]MessageHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// SetReconnectConfig overrides the default reconnection behavior
func (s *StreamClient) SetReconnectConfig(cfg ReconnectConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnectConfig = cfg
}

// Connect establishes the stream connection
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.Printf("Connecting to stream: %s", s.streamURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.stopped = false
	s.lastMessageTime = time.Now()
	RecordStreamConnection()

	s.logger.Printf("Connected to stream successfully")

	// Start message reading loop
	go s.readMessages(conn)

	return nil
}

// Authenticate sends the session handshake message
func (s *StreamClient) Authenticate(ctx context.Context) error {
	authMsg := map[string]interface{}{
		"op":        "connection",
		"authToken": s.sessionToken,
		"apiKey":    s.apiKey,
	}

	return s.sendMessage(authMsg)
}

// SubscribeToLines subscribes to line movement for the given athletes and markets
func (s *StreamClient) SubscribeToLines(
	ctx context.Context,
	athleteRefs []string,
	markets []string,
) error {
	subMsg := map[string]interface{}{
		"op":          "lcm",
		"authToken":   s.sessionToken,
		"apiKey":      s.apiKey,
		"athleteRefs": athleteRefs,
		"markets":     markets,
		"conflateMs":  1000,
		"heartbeat":   true,
	}

	s.mu.Lock()
	s.lastSubscription = subMsg
	s.mu.Unlock()

	s.logger.Printf("Subscribing to %d athletes across %d markets", len(athleteRefs), len(markets))
	return s.sendMessage(subMsg)
}

// AddHandler registers a message handler
func (s *StreamClient) AddHandler(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection
func (s *StreamClient) readMessages(conn *websocket.Conn) {
	for {
		var msg json.RawMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			s.mu.Lock()
			wasStopped := s.stopped
			s.isConnected = false
			s.mu.Unlock()

			if wasStopped {
				return
			}

			s.logger.Printf("Error reading message: %v", err)
			RecordStreamDisconnection()
			s.attemptReconnect()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()
		RecordMessageReceived()

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(msg); err != nil {
				s.logger.Printf("Handler error: %v", err)
			}
		}
	}
}

// attemptReconnect redials with exponential backoff and restores the
// subscription. Only one reconnect loop runs at a time.
func (s *StreamClient) attemptReconnect() {
	s.mu.Lock()
	if s.reconnecting {
		s.mu.Unlock()
		return
	}
	s.reconnecting = true
	cfg := s.reconnectConfig
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reconnecting = false
		s.mu.Unlock()
	}()

	backoff := cfg.InitialBackoff

	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		time.Sleep(backoff)

		s.mu.RLock()
		stopped := s.stopped
		subscription := s.lastSubscription
		s.mu.RUnlock()

		if stopped {
			return
		}

		s.logger.Printf("Reconnect attempt %d/%d", attempt, cfg.MaxRetries)

		if err := s.Connect(context.Background()); err != nil {
			s.logger.Printf("Reconnect failed: %v", err)
			backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
			if backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
			continue
		}

		if err := s.Authenticate(context.Background()); err != nil {
			s.logger.Printf("Reconnect authentication failed: %v", err)
			s.dropConnection()
			continue
		}

		if subscription != nil {
			if err := s.sendMessage(subscription); err != nil {
				s.logger.Printf("Resubscription failed: %v", err)
				s.dropConnection()
				continue
			}
		}

		RecordStreamReconnection()
		s.logger.Printf("Reconnected to stream")
		return
	}

	s.logger.Printf("Giving up after %d reconnect attempts", cfg.MaxRetries)
}

// dropConnection tears down the socket without marking the client stopped,
// so a later reconnect attempt can still proceed
func (s *StreamClient) dropConnection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
	}
	s.isConnected = false
}

// sendMessage sends a JSON message to the stream
func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}

// Ping sends a ping message to keep the connection alive
func (s *StreamClient) Ping() error {
	return s.sendMessage(map[string]interface{}{
		"op": "ping",
	})
}
