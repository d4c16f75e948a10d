package oddsfeed

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks lines API operations
type Metrics struct {
	// API request metrics
	APIRequestsTotal   int64
	APIRequestsSuccess int64
	APIRequestsFailure int64
	TotalAPILatency    time.Duration

	// Catalog metrics
	MarketsListed int64
	LinesFetched  int64

	// Line data metrics
	MessagesReceived     int64
	MessageProcessErrors int64
	LineSnapshotsStored  int64
	BufferFlushes        int64

	// Session metrics
	AuthenticationFailures int64
	SessionRefreshes       int64

	// Stream metrics
	StreamConnections    int64
	StreamDisconnections int64
	StreamReconnections  int64
	LastHeartbeat        time.Time
}

var (
	globalMetrics = &Metrics{}
	metricsMu     sync.RWMutex
)

// RecordAPIRequest records an API request
func RecordAPIRequest(latency time.Duration, success bool) {
	atomic.AddInt64(&globalMetrics.APIRequestsTotal, 1)
	atomic.AddInt64((*int64)(&globalMetrics.TotalAPILatency), int64(latency))

	if success {
		atomic.AddInt64(&globalMetrics.APIRequestsSuccess, 1)
	} else {
		atomic.AddInt64(&globalMetrics.APIRequestsFailure, 1)
	}
}

// RecordMarketsListed records a catalog listing
func RecordMarketsListed(count int) {
	atomic.AddInt64(&globalMetrics.MarketsListed, int64(count))
}

// RecordLinesFetched records fetched market lines
func RecordLinesFetched(count int) {
	atomic.AddInt64(&globalMetrics.LinesFetched, int64(count))
}

// RecordMessageReceived records a received stream message
func RecordMessageReceived() {
	atomic.AddInt64(&globalMetrics.MessagesReceived, 1)
}

// RecordMessageProcessError records a message processing error
func RecordMessageProcessError() {
	atomic.AddInt64(&globalMetrics.MessageProcessErrors, 1)
}

// RecordLineSnapshots records stored line snapshots
func RecordLineSnapshots(count int) {
	atomic.AddInt64(&globalMetrics.LineSnapshotsStored, int64(count))
}

// RecordBufferFlush records a buffer flush operation
func RecordBufferFlush() {
	atomic.AddInt64(&globalMetrics.BufferFlushes, 1)
}

// RecordAuthenticationFailure records an authentication failure
func RecordAuthenticationFailure() {
	atomic.AddInt64(&globalMetrics.AuthenticationFailures, 1)
}

// RecordSessionRefresh records a session refresh
func RecordSessionRefresh() {
	atomic.AddInt64(&globalMetrics.SessionRefreshes, 1)
}

// RecordStreamConnection records a stream connection
func RecordStreamConnection() {
	atomic.AddInt64(&globalMetrics.StreamConnections, 1)
}

// RecordStreamDisconnection records a stream disconnection
func RecordStreamDisconnection() {
	atomic.AddInt64(&globalMetrics.StreamDisconnections, 1)
}

// RecordStreamReconnection records a stream reconnection
func RecordStreamReconnection() {
	atomic.AddInt64(&globalMetrics.StreamReconnections, 1)
}

// RecordHeartbeat records a heartbeat
func RecordHeartbeat() {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	globalMetrics.LastHeartbeat = time.Now()
}

// AverageAPILatency returns the mean request latency so far
func (m Metrics) AverageAPILatency() time.Duration {
	if m.APIRequestsTotal == 0 {
		return 0
	}
	return m.TotalAPILatency / time.Duration(m.APIRequestsTotal)
}

// GetMetrics returns a snapshot of current metrics
func GetMetrics() Metrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()

	return Metrics{
		APIRequestsTotal:       atomic.LoadInt64(&globalMetrics.APIRequestsTotal),
		APIRequestsSuccess:     atomic.LoadInt64(&globalMetrics.APIRequestsSuccess),
		APIRequestsFailure:     atomic.LoadInt64(&globalMetrics.APIRequestsFailure),
		TotalAPILatency:        time.Duration(atomic.LoadInt64((*int64)(&globalMetrics.TotalAPILatency))),
		MarketsListed:          atomic.LoadInt64(&globalMetrics.MarketsListed),
		LinesFetched:           atomic.LoadInt64(&globalMetrics.LinesFetched),
		MessagesReceived:       atomic.LoadInt64(&globalMetrics.MessagesReceived),
		MessageProcessErrors:   atomic.LoadInt64(&globalMetrics.MessageProcessErrors),
		LineSnapshotsStored:    atomic.LoadInt64(&globalMetrics.LineSnapshotsStored),
		BufferFlushes:          atomic.LoadInt64(&globalMetrics.BufferFlushes),
		AuthenticationFailures: atomic.LoadInt64(&globalMetrics.AuthenticationFailures),
		SessionRefreshes:       atomic.LoadInt64(&globalMetrics.SessionRefreshes),
		StreamConnections:      atomic.LoadInt64(&globalMetrics.StreamConnections),
		StreamDisconnections:   atomic.LoadInt64(&globalMetrics.StreamDisconnections),
		StreamReconnections:    atomic.LoadInt64(&globalMetrics.StreamReconnections),
		LastHeartbeat:          globalMetrics.LastHeartbeat,
	}
}

// ResetMetrics resets all metrics
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.APIRequestsTotal, 0)
	atomic.StoreInt64(&globalMetrics.APIRequestsSuccess, 0)
	atomic.StoreInt64(&globalMetrics.APIRequestsFailure, 0)
	atomic.StoreInt64((*int64)(&globalMetrics.TotalAPILatency), 0)
	atomic.StoreInt64(&globalMetrics.MarketsListed, 0)
	atomic.StoreInt64(&globalMetrics.LinesFetched, 0)
	atomic.StoreInt64(&globalMetrics.MessagesReceived, 0)
	atomic.StoreInt64(&globalMetrics.MessageProcessErrors, 0)
	atomic.StoreInt64(&globalMetrics.LineSnapshotsStored, 0)
	atomic.StoreInt64(&globalMetrics.BufferFlushes, 0)
	atomic.StoreInt64(&globalMetrics.AuthenticationFailures, 0)
	atomic.StoreInt64(&globalMetrics.SessionRefreshes, 0)
	atomic.StoreInt64(&globalMetrics.StreamConnections, 0)
	atomic.StoreInt64(&globalMetrics.StreamDisconnections, 0)
	atomic.StoreInt64(&globalMetrics.StreamReconnections, 0)

	metricsMu.Lock()
	defer metricsMu.Unlock()
	globalMetrics.LastHeartbeat = time.Time{}
}
