// Package backoff computes the exponential delay schedule used between
// reconnection attempts.
package backoff

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Config holds backoff schedule parameters.
type Config struct {
	// InitialDelay is the delay before the first retry (default: 1s).
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries (default: 30s).
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor (default: 2.0).
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd (default: 0).
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64

	// MaxAttempts limits the number of attempts; 0 means unlimited.
	MaxAttempts int
}

// DefaultConfig returns the default backoff configuration:
// 1 second initial delay, 30 second cap, 2x multiplier, no jitter,
// unlimited attempts. The resulting schedule is 1, 2, 4, 8, 16, 30, 30, ...
func DefaultConfig() Config {
	return Config{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0,
		MaxAttempts:  0,
	}
}

// withDefaults fills zero fields with the default schedule.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	return c
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt), then jitter.
func (c Config) Delay(attempt int) time.Duration {
	c = c.withDefaults()
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*c.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}

// Exhausted reports whether the given 1-indexed attempt count has used up
// the configured attempt limit.
func (c Config) Exhausted(attempts int) bool {
	return c.MaxAttempts > 0 && attempts >= c.MaxAttempts
}

// Sleep waits for the given attempt's delay, returning early with the
// context error if ctx is cancelled.
func Sleep(ctx context.Context, cfg Config, attempt int) error {
	timer := time.NewTimer(cfg.Delay(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
