package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default backoff policy for transient request failures.
const (
	DefaultBackoffAttempts = 6
	DefaultBackoffInitial  = time.Second
	DefaultBackoffMax      = 30 * time.Second
)

// Backoff retries a plain request/response call, such as a download or an
// upload, pausing twice as long after each failure up to a ceiling.
// Readiness is observed with a Poller instead.
//
// A nil *Backoff uses the default policy.
type Backoff struct {
	attempts int
	initial  time.Duration
	max      time.Duration
	clock    Clock
}

// BackoffOption customizes a Backoff.
type BackoffOption func(*Backoff)

// WithAttempts sets the total number of calls, the first one included.
// Values below one are raised to one.
func WithAttempts(n int) BackoffOption {
	return func(b *Backoff) {
		b.attempts = max(n, 1)
	}
}

// WithDelays sets the first pause and the ceiling of later pauses.
func WithDelays(initial, ceiling time.Duration) BackoffOption {
	return func(b *Backoff) {
		b.initial = initial
		b.max = max(ceiling, initial)
	}
}

// WithBackoffClock replaces the wall clock, mostly for tests.
func WithBackoffClock(c Clock) BackoffOption {
	return func(b *Backoff) {
		b.clock = c
	}
}

// NewBackoff creates a Backoff with the default policy adjusted by opts.
func NewBackoff(opts ...BackoffOption) *Backoff {
	b := &Backoff{
		attempts: DefaultBackoffAttempts,
		initial:  DefaultBackoffInitial,
		max:      DefaultBackoffMax,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Delay returns the pause that follows failed call n, counting from zero.
func (b *Backoff) Delay(n int) time.Duration {
	d := b.initial
	for i := 0; i < n && d < b.max; i++ {
		d *= 2
	}
	return min(d, b.max)
}

// Do calls op until it succeeds, returns a Permanent error or the attempts
// are used up. The last error is wrapped in the returned one.
func (b *Backoff) Do(ctx context.Context, op func(context.Context) error) error {
	if b == nil {
		b = NewBackoff()
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt >= b.attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}
		if serr := b.clock.Sleep(ctx, b.Delay(attempt-1)); serr != nil {
			return fmt.Errorf("interrupted after %d attempts: %w (last error: %v)", attempt, serr, err)
		}
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Backoff.Do returns it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or an error it wraps, was marked Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
