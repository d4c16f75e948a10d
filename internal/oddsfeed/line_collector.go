package oddsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/prop-insight/internal/models"
	"github.com/yourusername/prop-insight/internal/repository"
)

// LineCollector collects streaming line movement and stores snapshots
type LineCollector struct {
	streamClient  *StreamClient
	lines         repository.PropLineRepository
	athleteRefs   map[string]uuid.UUID
	buffer        []*models.PropLine
	bufferSize    int
	flushInterval time.Duration
	mu            sync.Mutex
	done          chan struct{}
	metrics       *CollectorMetrics
	logger        *log.Logger
}

// CollectorMetrics tracks collector performance
type CollectorMetrics struct {
	MessagesProcessed int64
	BufferFlushes     int64
	SnapshotsStored   int64
	UnknownAthletes   int64
	Errors            int64
	LastFlushTime     time.Time
	BufferSize        int
}

// NewLineCollector creates a new line movement collector
func NewLineCollector(
	streamClient *StreamClient,
	lines repository.PropLineRepository,
	bufferSize int,
	flushInterval time.Duration,
	logger *log.Logger,
) *LineCollector {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if bufferSize <= 0 {
		bufferSize = 1000
	}

	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}

	return &LineCollector{
		streamClient:  streamClient,
		lines:         lines,
		athleteRefs:   make(map[string]uuid.UUID),
		buffer:        make([]*models.PropLine, 0, bufferSize),
		bufferSize:    bufferSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
		metrics:       &CollectorMetrics{},
		logger:        logger,
	}
}

// Start begins collecting line movement. The athlete registry maps feed refs
// to resolved athlete IDs; changes for unregistered refs are dropped.
func (c *LineCollector) Start(ctx context.Context, athleteRefs map[string]uuid.UUID, markets []string) error {
	if len(athleteRefs) == 0 {
		return fmt.Errorf("at least one athlete required")
	}

	c.mu.Lock()
	refs := make([]string, 0, len(athleteRefs))
	for ref, id := range athleteRefs {
		c.athleteRefs[ref] = id
		refs = append(refs, ref)
	}
	c.mu.Unlock()

	c.logger.Printf("Starting line collector for %d athletes", len(refs))

	c.streamClient.AddHandler(c.onMessage)

	if err := c.streamClient.SubscribeToLines(ctx, refs, markets); err != nil {
		return fmt.Errorf("failed to subscribe to lines: %w", err)
	}

	go c.flushLoop()

	c.logger.Printf("Line collector started")
	return nil
}

// onMessage processes incoming stream messages
func (c *LineCollector) onMessage(msg interface{}) error {
	data, ok := msg.(json.RawMessage)
	if !ok {
		return fmt.Errorf("invalid message type")
	}

	var streamMsg StreamMessage
	if err := json.Unmarshal(data, &streamMsg); err != nil {
		c.logger.Printf("Failed to unmarshal stream message: %v", err)
		c.mu.Lock()
		c.metrics.Errors++
		c.mu.Unlock()
		RecordMessageProcessError()
		return err
	}

	c.mu.Lock()
	c.metrics.MessagesProcessed++
	c.mu.Unlock()

	switch streamMsg.Op {
	case "connection":
		c.logger.Printf("Stream connection: %s", streamMsg.ConnectionID)
		return nil
	case "status":
		c.logger.Printf("Stream status: %d", streamMsg.Status)
		return nil
	case "lcm":
		return c.processLineChanges(streamMsg.LineChanges)
	}

	return nil
}

// processLineChanges converts line change messages to line snapshots
func (c *LineCollector) processLineChanges(changes []LineChange) error {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, change := range changes {
		if change.Heartbeat {
			RecordHeartbeat()
			continue
		}

		athleteID, known := c.athleteRefs[change.AthleteRef]
		if !known {
			c.metrics.UnknownAthletes++
			continue
		}

		for _, book := range change.Books {
			if book.Suspended {
				continue
			}

			snapshot := &models.PropLine{
				Time:       now,
				AthleteID:  athleteID,
				Market:     change.Market,
				Line:       book.Line,
				OverPrice:  decimal.NewFromFloat(book.OverPrice),
				UnderPrice: decimal.NewFromFloat(book.UnderPrice),
				Book:       book.Book,
			}

			c.buffer = append(c.buffer, snapshot)

			if len(c.buffer) >= c.bufferSize {
				if err := c.flushBuffer(); err != nil {
					c.logger.Printf("Error flushing buffer: %v", err)
					c.metrics.Errors++
				}
			}
		}
	}

	c.metrics.BufferSize = len(c.buffer)
	return nil
}

// flushBuffer writes buffered snapshots to the database. Caller holds the lock.
func (c *LineCollector) flushBuffer() error {
	if len(c.buffer) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.logger.Printf("Flushing buffer: %d snapshots", len(c.buffer))

	if err := c.lines.InsertBatch(ctx, c.buffer); err != nil {
		c.logger.Printf("Failed to insert batch: %v", err)
		c.metrics.Errors++
		return err
	}

	count := len(c.buffer)
	c.buffer = make([]*models.PropLine, 0, c.bufferSize)
	c.metrics.SnapshotsStored += int64(count)
	c.metrics.BufferFlushes++
	c.metrics.LastFlushTime = time.Now()

	RecordLineSnapshots(count)
	RecordBufferFlush()

	c.logger.Printf("Buffer flushed: %d snapshots stored", count)
	return nil
}

// flushLoop periodically flushes the buffer
func (c *LineCollector) flushLoop() {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			if err := c.flushBuffer(); err != nil {
				c.logger.Printf("Periodic flush failed: %v", err)
			}
			c.mu.Unlock()

		case <-c.done:
			c.logger.Printf("Flush loop stopped")
			return
		}
	}
}

// Stop gracefully shuts down the collector
func (c *LineCollector) Stop() error {
	c.logger.Printf("Stopping line collector")

	close(c.done)

	// Final flush
	c.mu.Lock()
	if len(c.buffer) > 0 {
		c.logger.Printf("Performing final flush: %d snapshots", len(c.buffer))
		if err := c.flushBuffer(); err != nil {
			c.logger.Printf("Final flush failed: %v", err)
		}
	}
	c.mu.Unlock()

	if err := c.streamClient.Close(); err != nil {
		c.logger.Printf("Error closing stream: %v", err)
	}

	c.logger.Printf("Line collector stopped")
	return nil
}

// GetMetrics returns current collector metrics
func (c *LineCollector) GetMetrics() CollectorMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.metrics
}

// ResetMetrics resets collector metrics
func (c *LineCollector) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = &CollectorMetrics{}
}
