package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default polling policy for readiness checks.
const (
	DefaultTimeout  = 5400 * time.Second
	DefaultInterval = 300 * time.Second
)

var (
	// ErrTimeout matches every *TimeoutError.
	ErrTimeout = errors.New("timed out waiting for condition")

	// ErrInvalidPolicy is returned when a poller is built with a non-positive duration.
	ErrInvalidPolicy = errors.New("invalid poll policy")
)

// Check performs one observation.
//
// It returns (true, nil) when the condition holds, (false, nil) when polling
// should continue and a non-nil error to abort polling immediately.
type Check func(ctx context.Context) (bool, error)

// Clock abstracts time for the poller.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TimeoutError reports that a poller used up all of its attempts.
type TimeoutError struct {
	Attempts int
	Timeout  time.Duration
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s after %d attempts (timeout %v, elapsed %v)",
		ErrTimeout, e.Attempts, e.Timeout, e.Elapsed.Round(time.Millisecond))
}

// Is makes errors.Is(err, ErrTimeout) work.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// PollOption customizes a Poller.
type PollOption func(*Poller)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) PollOption {
	return func(p *Poller) {
		p.clock = c
	}
}

// Poller runs a Check until it succeeds, fails or runs out of attempts.
type Poller struct {
	timeout  time.Duration
	interval time.Duration
	clock    Clock
}

// NewPoller creates a Poller making ceil(timeout/interval) attempts spaced
// interval apart, measured from the start of one check to the start of the next.
func NewPoller(timeout, interval time.Duration, opts ...PollOption) (*Poller, error) {
	if timeout <= 0 || interval <= 0 {
		return nil, fmt.Errorf("%w: timeout=%v interval=%v", ErrInvalidPolicy, timeout, interval)
	}

	p := &Poller{
		timeout:  timeout,
		interval: interval,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Timeout returns the total polling budget.
func (p *Poller) Timeout() time.Duration { return p.timeout }

// Interval returns the start-to-start polling interval.
func (p *Poller) Interval() time.Duration { return p.interval }

// Attempts returns the number of times the check will run before giving up.
func (p *Poller) Attempts() int {
	return int((p.timeout + p.interval - 1) / p.interval)
}

// WaitUntil runs check immediately and then once per interval.
//
// An error returned by check is passed through unchanged. When every attempt
// reports "not yet" a *TimeoutError is returned. The sleep before the next
// attempt is the interval minus the time the check took, floored at zero.
func (p *Poller) WaitUntil(ctx context.Context, check Check) error {
	attempts := p.Attempts()
	start := p.clock.Now()

	for attempt := 1; attempt <= attempts; attempt++ {
		checkStart := p.clock.Now()

		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := p.interval - p.clock.Now().Sub(checkStart)
		if wait <= 0 {
			continue
		}
		if err := p.clock.Sleep(ctx, wait); err != nil {
			return fmt.Errorf("polling interrupted after %d attempts: %w", attempt, err)
		}
	}

	return &TimeoutError{
		Attempts: attempts,
		Timeout:  p.timeout,
		Elapsed:  p.clock.Now().Sub(start),
	}
}

// WaitUntil is a convenience wrapper around NewPoller and Poller.WaitUntil.
func WaitUntil(ctx context.Context, check Check, timeout, interval time.Duration, opts ...PollOption) error {
	p, err := NewPoller(timeout, interval, opts...)
	if err != nil {
		return err
	}
	return p.WaitUntil(ctx, check)
}
