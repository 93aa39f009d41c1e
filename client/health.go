package client

import (
	"sync"
	"time"
)

// Health is a point-in-time snapshot of the transport counters. It supports
// operability only; nothing in the runtime depends on it for correctness.
type Health struct {
	// State is the connection state at snapshot time.
	State ConnectionState
	// ConnectedAt is when the current connection was established; zero when
	// not connected.
	ConnectedAt time.Time
	// Uptime is the age of the current connection; zero when not connected.
	Uptime time.Duration
	// BytesRead counts cumulative frame payload bytes.
	BytesRead uint64
	// FramesRead counts cumulative SSE frames.
	FramesRead uint64
	// EventsDelivered counts events pushed into the queue.
	EventsDelivered uint64
	// EventsDropped counts events discarded by the backpressure policy.
	EventsDropped uint64
	// ParseErrors counts frames that failed to decode or validate.
	ParseErrors uint64
	// ReconnectAttempts counts cumulative reconnect attempts.
	ReconnectAttempts uint64
	// EventRate is the delivered-event rate over the sliding window,
	// in events per second.
	EventRate float64
	// LastError is the most recent transport or parse error message,
	// empty if none.
	LastError string
}

// healthTracker accumulates counters from the read loop. Mutations happen on
// the read-loop goroutine and snapshots on API goroutines, so everything is
// guarded by a short-lived mutex.
type healthTracker struct {
	mu          sync.Mutex
	window      time.Duration
	connectedAt time.Time
	bytes       uint64
	frames      uint64
	delivered   uint64
	dropped     uint64
	parseErrors uint64
	reconnects  uint64
	lastError   error
	samples     []time.Time
}

func newHealthTracker(window time.Duration) *healthTracker {
	return &healthTracker{window: window}
}

func (h *healthTracker) recordConnect() {
	h.mu.Lock()
	h.connectedAt = time.Now()
	h.mu.Unlock()
}

func (h *healthTracker) recordDisconnect(err error) {
	h.mu.Lock()
	h.connectedAt = time.Time{}
	if err != nil {
		h.lastError = err
	}
	h.mu.Unlock()
}

func (h *healthTracker) recordFrame(payloadBytes int) {
	h.mu.Lock()
	h.frames++
	h.bytes += uint64(payloadBytes)
	h.mu.Unlock()
}

func (h *healthTracker) recordEvent() {
	now := time.Now()
	h.mu.Lock()
	h.delivered++
	h.samples = append(h.samples, now)
	h.prune(now)
	h.mu.Unlock()
}

func (h *healthTracker) recordDrop() {
	h.mu.Lock()
	h.dropped++
	h.mu.Unlock()
}

func (h *healthTracker) recordParseError(err error) {
	h.mu.Lock()
	h.parseErrors++
	h.lastError = err
	h.mu.Unlock()
}

func (h *healthTracker) recordReconnectAttempt() {
	h.mu.Lock()
	h.reconnects++
	h.mu.Unlock()
}

// prune drops rate samples older than the window. Callers hold h.mu.
func (h *healthTracker) prune(now time.Time) {
	cutoff := now.Add(-h.window)
	i := 0
	for i < len(h.samples) && h.samples[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		h.samples = append(h.samples[:0], h.samples[i:]...)
	}
}

func (h *healthTracker) snapshot(state ConnectionState) Health {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prune(now)

	snap := Health{
		State:             state,
		ConnectedAt:       h.connectedAt,
		BytesRead:         h.bytes,
		FramesRead:        h.frames,
		EventsDelivered:   h.delivered,
		EventsDropped:     h.dropped,
		ParseErrors:       h.parseErrors,
		ReconnectAttempts: h.reconnects,
		EventRate:         float64(len(h.samples)) / h.window.Seconds(),
	}
	if !h.connectedAt.IsZero() {
		snap.Uptime = now.Sub(h.connectedAt)
	}
	if h.lastError != nil {
		snap.LastError = h.lastError.Error()
	}
	return snap
}
