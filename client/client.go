package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agwire/agwire"
	"github.com/agwire/agwire/backoff"
	"github.com/agwire/agwire/event"
	"github.com/agwire/agwire/sse"
)

// ErrNotDisconnected is returned by Connect when the client is already
// connecting, connected, or reconnecting.
var ErrNotDisconnected = errors.New("client: connect requires a disconnected client")

// ErrClosed is returned by Connect after Close has been called.
var ErrClosed = errors.New("client: closed")

// Client is a streaming AG-UI transport. It owns at most one HTTP connection
// at a time and delivers decoded events in wire order through a bounded
// queue. All methods are safe for concurrent use.
type Client struct {
	cfg Config

	state        atomic.Int32
	events       chan event.Event
	reconnecting atomic.Bool
	health       *healthTracker

	mu          sync.Mutex
	body        io.ReadCloser
	loopDone    chan struct{}
	runCancel   context.CancelFunc
	lastEventID string

	closeOnce sync.Once
	closedCh  chan struct{}
}

// New creates a Client from the given configuration.
// Returns an error if Endpoint is empty or unparseable.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("client: Endpoint is required")
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, &agwire.TransportError{Endpoint: cfg.Endpoint, Err: err}
	}
	cfg = cfg.withDefaults()
	return &Client{
		cfg:      cfg,
		events:   make(chan event.Event, cfg.QueueSize),
		health:   newHealthTracker(cfg.RateWindow),
		closedCh: make(chan struct{}),
	}, nil
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Events returns the decoded event queue. The channel is closed by Close,
// after the read loop has exited. Events arrive in exact wire order.
func (c *Client) Events() <-chan event.Event {
	return c.events
}

// LastEventID returns the most recent SSE frame id seen on the stream. It is
// replayed as Last-Event-ID on the next connect so servers that support
// resumption can pick up where they left off.
func (c *Client) LastEventID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastEventID
}

// Health returns a point-in-time snapshot of the transport counters.
func (c *Client) Health() Health {
	return c.health.snapshot(c.State())
}

// Connect establishes the streaming connection and spawns the background
// read loop. It fails with ErrNotDisconnected unless the client is in the
// Disconnected state, and with ErrClosed after Close. ctx governs the
// handshake and the lifetime of the stream: cancelling it stops the read
// loop without triggering reconnection.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(Disconnected), int32(Connecting)) {
		if c.State() == Closed {
			return ErrClosed
		}
		return ErrNotDisconnected
	}

	runCtx, runCancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.runCancel = runCancel
	c.mu.Unlock()

	if err := c.dial(runCtx); err != nil {
		c.setStateIfNotClosed(Disconnected)
		return err
	}
	return nil
}

// dial performs one connection attempt: the streaming GET, status check,
// and read loop spawn. Used by Connect and by the reconnect loop.
func (c *Client) dial(ctx context.Context) error {
	if c.State() == Closed {
		return ErrClosed
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, c.cfg.Endpoint, nil)
	if err != nil {
		cancel()
		return &agwire.TransportError{Endpoint: c.cfg.Endpoint, Err: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if id := c.LastEventID(); id != "" {
		req.Header.Set("Last-Event-ID", id)
	}

	// Bound the handshake without bounding the stream: the timer cancels
	// the request context only if headers have not arrived in time.
	handshake := time.AfterFunc(c.cfg.ConnectTimeout, cancel)
	resp, err := c.cfg.HTTPClient.Do(req) //nolint:bodyclose // closed by the read loop
	timedOut := !handshake.Stop()

	if err != nil {
		cancel()
		switch {
		case ctx.Err() != nil:
			return &agwire.CancellationError{Op: "connect", Err: ctx.Err()}
		case timedOut:
			return &agwire.TimeoutError{Op: "connect", Timeout: c.cfg.ConnectTimeout, Err: err}
		default:
			return &agwire.TransportError{Endpoint: c.cfg.Endpoint, Err: err}
		}
	}
	if timedOut {
		resp.Body.Close()
		cancel()
		return &agwire.TimeoutError{Op: "connect", Timeout: c.cfg.ConnectTimeout}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return &agwire.TransportError{Endpoint: c.cfg.Endpoint, StatusCode: resp.StatusCode}
	}

	done := make(chan struct{})
	c.mu.Lock()
	// Re-check under the lock: Close collects body and loopDone under the
	// same lock, so a stream registered here is always waited on, and none
	// is registered once the client is closed.
	if c.State() == Closed {
		c.mu.Unlock()
		resp.Body.Close()
		cancel()
		return ErrClosed
	}
	c.body = resp.Body
	c.loopDone = done
	c.mu.Unlock()

	c.setStateIfNotClosed(Connected)
	c.health.recordConnect()
	if cb := c.cfg.OnConnect; cb != nil {
		cb()
	}

	go c.readLoop(ctx, resp.Body, done)
	return nil
}

// readLoop is the sole producer into the event queue. It exits on read
// error, stream EOF, or context cancellation.
func (c *Client) readLoop(ctx context.Context, body io.ReadCloser, done chan struct{}) {
	defer close(done)
	defer body.Close()

	scanner := sse.NewScanner(body)
	var readErr error
	for {
		frame, err := scanner.Next()
		if err != nil {
			readErr = err
			break
		}
		c.health.recordFrame(len(frame.Data))
		if frame.ID != "" {
			c.setLastEventID(frame.ID)
		}

		ev, err := event.Decode(frame.Data)
		if err != nil {
			c.health.recordParseError(err)
			if c.cfg.SkipInvalidEvents {
				c.cfg.Logger.Debug("skipping invalid event", "error", err)
			} else if cb := c.cfg.OnError; cb != nil {
				cb(err)
			}
			continue
		}
		c.push(ctx, ev)
	}

	c.handleDisconnect(ctx, readErr)
}

// push delivers one event to the queue. A full queue gets a grace period;
// past it the event is dropped and a warning logged. Dropping is the
// documented backpressure policy, not a failure.
func (c *Client) push(ctx context.Context, ev event.Event) {
	select {
	case c.events <- ev:
		c.health.recordEvent()
		return
	default:
	}

	timer := time.NewTimer(c.cfg.QueueGrace)
	defer timer.Stop()
	select {
	case c.events <- ev:
		c.health.recordEvent()
	case <-timer.C:
		c.health.recordDrop()
		c.cfg.Logger.Warn("event queue full, dropping event",
			"type", ev.Type(),
			"capacity", c.cfg.QueueSize,
			"grace", c.cfg.QueueGrace,
		)
	case <-ctx.Done():
	case <-c.closedCh:
	}
}

// handleDisconnect classifies a read-loop exit and either starts the
// reconnect sequence or settles into Disconnected.
func (c *Client) handleDisconnect(ctx context.Context, readErr error) {
	c.health.recordDisconnect(readErr)
	if c.State() == Closed {
		return
	}

	if ctx.Err() != nil {
		// Caller-initiated cancellation: orderly exit, never a reconnect.
		c.setStateIfNotClosed(Disconnected)
		if cb := c.cfg.OnDisconnect; cb != nil {
			cb(&agwire.CancellationError{Op: "read", Err: ctx.Err()})
		}
		return
	}

	if c.cfg.Reconnect && c.State() == Connected {
		go c.reconnectLoop(ctx, readErr)
		return
	}

	c.setStateIfNotClosed(Disconnected)
	if cb := c.cfg.OnDisconnect; cb != nil {
		cb(readErr)
	}
}

// reconnectLoop re-establishes the stream with exponential backoff. The
// guard makes concurrent triggers no-ops; each independent cycle starts its
// schedule over at the initial delay.
func (c *Client) reconnectLoop(ctx context.Context, cause error) {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	defer c.reconnecting.Store(false)

	c.setStateIfNotClosed(Reconnecting)
	c.cfg.Logger.Warn("connection lost, reconnecting", "error", cause)

	lastErr := cause
	for attempt := 1; ; attempt++ {
		c.health.recordReconnectAttempt()
		if cb := c.cfg.OnReconnectAttempt; cb != nil {
			cb(attempt)
		}

		if err := backoff.Sleep(ctx, c.cfg.Backoff, attempt-1); err != nil {
			// Cancelled mid-backoff: abort quietly; the disconnect
			// callback already fired or Close is in progress.
			c.setStateIfNotClosed(Disconnected)
			return
		}
		if c.State() == Closed {
			return
		}

		err := c.dial(ctx)
		if err == nil {
			c.cfg.Logger.Info("reconnected", "attempts", attempt)
			return
		}
		lastErr = err
		c.cfg.Logger.Warn("reconnect attempt failed", "attempt", attempt, "error", err)

		if c.cfg.Backoff.Exhausted(attempt) {
			c.setStateIfNotClosed(Disconnected)
			if cb := c.cfg.OnDisconnect; cb != nil {
				cb(lastErr)
			}
			return
		}
	}
}

// Close shuts the client down: terminal state, stream cancellation, and a
// bounded wait for the read loop before force-releasing the connection.
// Closing an already-closed client is not an error.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.state.Store(int32(Closed))
		close(c.closedCh)

		c.mu.Lock()
		cancel := c.runCancel
		body := c.body
		done := c.loopDone
		c.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if done != nil {
			select {
			case <-done:
			case <-time.After(c.cfg.CloseTimeout):
				// Force-release the underlying connection; closing the
				// body unblocks any pending read.
				if body != nil {
					body.Close()
				}
				<-done
			}
		}
		close(c.events)
	})
	return nil
}

func (c *Client) setLastEventID(id string) {
	c.mu.Lock()
	c.lastEventID = id
	c.mu.Unlock()
}

// setStateIfNotClosed transitions to s unless the client has been closed;
// Closed is terminal.
func (c *Client) setStateIfNotClosed(s ConnectionState) {
	for {
		cur := c.state.Load()
		if cur == int32(Closed) {
			return
		}
		if c.state.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}
