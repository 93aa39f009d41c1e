// Command agtail follows an AG-UI event stream and prints the read model as
// it lands: streamed assistant messages, tool calls with their results, and
// the reconciled state document.
//
// Configuration is via environment variables (a .env file is honored):
//
//	AGTAIL_ENDPOINT        - AG-UI SSE endpoint URL (required)
//	AGTAIL_AUTH_TOKEN      - bearer token for the Authorization header
//	AGTAIL_LOG_LEVEL       - debug, info, warn, error (default: info)
//	AGTAIL_DB              - SQLite path; persists finished runs when set
//	AGTAIL_RECONNECT       - reconnect on stream loss (default: true)
//	AGTAIL_QUEUE_SIZE      - event queue capacity (default: 256)
//	AGTAIL_CONNECT_TIMEOUT - connect handshake timeout (default: 30s)
//	AGTAIL_SHOW_STATE      - print state with finished runs (default: false)
//
// Usage:
//
//	AGTAIL_ENDPOINT=http://localhost:8000/api/agent go run ./cmd/agtail
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/agwire/agwire/client"
	"github.com/agwire/agwire/run"
	"github.com/agwire/agwire/store"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	if err := tail(cfg, logger); err != nil && err != context.Canceled {
		logger.Error("agtail exited", "error", err)
		os.Exit(1)
	}
}

func tail(cfg *Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	headers := map[string]string{}
	if cfg.AuthToken != "" {
		headers["Authorization"] = "Bearer " + cfg.AuthToken
	}

	c, err := client.New(client.Config{
		Endpoint:       cfg.Endpoint,
		Headers:        headers,
		ConnectTimeout: cfg.ConnTimeout,
		QueueSize:      cfg.QueueSize,
		Reconnect:      cfg.Reconnect,
		Logger:         logger,
		OnConnect: func() {
			logger.Info("connected", "endpoint", cfg.Endpoint)
		},
		OnReconnectAttempt: func(attempt int) {
			logger.Warn("reconnecting", "attempt", attempt)
		},
		OnDisconnect: func(err error) {
			logger.Warn("disconnected", "error", err)
		},
		OnError: func(err error) {
			logger.Warn("stream error", "error", err)
		},
	})
	if err != nil {
		return err
	}
	defer c.Close()

	proc := run.NewProcessor(run.Config{Logger: logger})
	printer := newPrinter(os.Stdout, cfg.ShowState)
	proc.OnFlush(printer.flush)
	proc.OnError(func(err error) {
		logger.Warn("event rejected", "error", err)
	})

	if cfg.DBPath != "" {
		adapter, err := store.NewSQLiteAdapter(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer adapter.Close()

		views := store.NewViewStore(adapter)
		proc.OnFlush(func(v *run.View) {
			if !v.Finished {
				return
			}
			if err := views.Save(ctx, v); err != nil {
				logger.Error("persist run", "run", v.RunID, "error", err)
			}
		})
		logger.Info("persisting finished runs", "path", cfg.DBPath)
	}

	if err := c.Connect(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return proc.Run(gctx, c.Events())
	})
	g.Go(func() error {
		<-gctx.Done()
		return c.Close()
	})
	return g.Wait()
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
