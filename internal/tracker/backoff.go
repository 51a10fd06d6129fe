package tracker

import "time"

const (
	// FirstRetryDelay is the wait after the first failed recompute.
	FirstRetryDelay = 2 * time.Minute
	// MaxRetryDelay caps the wait between recompute attempts.
	MaxRetryDelay = 30 * time.Minute
)

// Backoff spaces out schedule recomputes after failures, doubling the wait
// from FirstRetryDelay up to MaxRetryDelay. The zero value is ready.
type Backoff struct {
	failures int
	next     time.Time
}

// Ready reports whether an attempt may be made at now.
func (b *Backoff) Ready(now time.Time) bool {
	return !now.Before(b.next)
}

// Failed records a failed attempt at now and returns the wait before the
// next one.
func (b *Backoff) Failed(now time.Time) time.Duration {
	b.failures++
	d := MaxRetryDelay
	if shift := b.failures - 1; shift < 5 {
		d = min(FirstRetryDelay<<shift, MaxRetryDelay)
	}
	b.next = now.Add(d)
	return d
}

// Next is when the next attempt is allowed.
func (b *Backoff) Next() time.Time {
	return b.next
}

// Reset clears the failure count after a success.
func (b *Backoff) Reset() {
	*b = Backoff{}
}
