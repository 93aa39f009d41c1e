package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agwire/agwire/backoff"
)

// Config holds the settings needed to construct a Client.
type Config struct {
	// Endpoint is the URL of the AG-UI event stream (required).
	Endpoint string

	// Headers are attached to every streaming request, e.g. authorization.
	Headers map[string]string

	// HTTPClient is an optional custom HTTP client. If nil, a default
	// client without an overall timeout is used; SSE streams stay open
	// indefinitely.
	HTTPClient *http.Client

	// ConnectTimeout bounds the handshake: if response headers have not
	// arrived within it, the connect attempt fails. Defaults to 30 seconds.
	ConnectTimeout time.Duration

	// CloseTimeout bounds how long Close waits for the read loop to exit
	// before force-releasing the connection. Defaults to 5 seconds.
	CloseTimeout time.Duration

	// QueueSize is the capacity of the decoded event queue. Defaults to 256.
	QueueSize int

	// QueueGrace is how long a full-queue push waits before dropping the
	// event. Defaults to 1 second.
	QueueGrace time.Duration

	// RateWindow is the sliding window for the event-rate health counter.
	// Defaults to 10 seconds.
	RateWindow time.Duration

	// Reconnect enables automatic reconnection after read errors.
	Reconnect bool

	// Backoff configures the reconnect delay schedule. Zero values take
	// the defaults: 1s initial, 2x multiplier, 30s cap, unlimited attempts.
	Backoff backoff.Config

	// SkipInvalidEvents silently drops malformed frames instead of
	// surfacing them through OnError. Either way the stream continues;
	// a single bad frame never kills a healthy connection.
	SkipInvalidEvents bool

	// Logger receives transport warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// OnConnect fires once per successful connection, initial or
	// re-established.
	OnConnect func()

	// OnReconnectAttempt fires before each reconnect attempt with the
	// 1-indexed attempt number of the current cycle.
	OnReconnectAttempt func(attempt int)

	// OnDisconnect fires at most once per connection loss that will not be
	// retried: reconnection disabled, or attempts exhausted.
	OnDisconnect func(err error)

	// OnError receives non-fatal stream errors: decode and validation
	// failures on individual frames.
	OnError func(err error)
}

// withDefaults fills zero fields with defaults.
func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = 5 * time.Second
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.QueueGrace <= 0 {
		c.QueueGrace = time.Second
	}
	if c.RateWindow <= 0 {
		c.RateWindow = 10 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
