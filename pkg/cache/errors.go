package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures talking to a remote backend. Operations that
// fail with it are retried by Backoff.
var ErrNetwork = errors.New("cache: network error")

type netError struct {
	op  string
	err error
}

func (e *netError) Error() string   { return "cache: " + e.op + ": " + e.err.Error() }
func (e *netError) Unwrap() []error { return []error{ErrNetwork, e.err} }

// networkError tags err as a transient backend failure during op.
func networkError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &netError{op: op, err: err}
}

// Backoff retries remote cache operations that fail with ErrNetwork,
// doubling Delay after each failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used by the Redis and MongoDB backends.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Do calls fn until it succeeds, fails with a non-network error, runs out of
// attempts, or ctx ends.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !errors.Is(err, ErrNetwork) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
