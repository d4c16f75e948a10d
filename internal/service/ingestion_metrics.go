package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about stat record ingestion
type IngestionMetrics struct {
	mu                sync.RWMutex
	StartTime         time.Time
	Duration          time.Duration
	TotalRecords      int
	SuccessfulRecords int
	AthletesCreated   int
	GamesLinked       int
	Duplicates        int
	ValidationErrors  int
	Errors            int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalRecords = 0
	m.SuccessfulRecords = 0
	m.AthletesCreated = 0
	m.GamesLinked = 0
	m.Duplicates = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordSuccess increments the successful record count
func (m *IngestionMetrics) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulRecords++
}

// RecordAthleteCreated increments the created athlete count
func (m *IngestionMetrics) RecordAthleteCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AthletesCreated++
}

// RecordGameLinked increments the linked game count
func (m *IngestionMetrics) RecordGameLinked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GamesLinked++
}

// RecordDuplicate increments the duplicate count
func (m *IngestionMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordError increments the error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments the validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Finish stamps the total run duration
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalRecords > 0 {
		successRate = float64(m.SuccessfulRecords) / float64(m.TotalRecords) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Total=%d, Successful=%d (%.1f%%), AthletesCreated=%d, GamesLinked=%d, Duplicates=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalRecords,
		m.SuccessfulRecords,
		successRate,
		m.AthletesCreated,
		m.GamesLinked,
		m.Duplicates,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
