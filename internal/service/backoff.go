package service

import (
	"context"
	"math/rand"
	"time"
)

const backoffMultiplier = 2.0

// Backoff produces capped exponential delays. Not safe for concurrent use;
// each loop owns its own instance.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	jitter  bool
	cur     time.Duration
	rnd     *rand.Rand
}

// NewBackoff starts at initial and doubles up to max. With jitter, up to 25%
// is added to each delay.
func NewBackoff(initial, max time.Duration, jitter bool) *Backoff {
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	if max < initial {
		max = initial
	}
	return &Backoff{
		initial: initial,
		max:     max,
		jitter:  jitter,
		cur:     initial,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to wait now and advances the sequence.
func (b *Backoff) Next() time.Duration {
	d := b.cur

	next := time.Duration(float64(b.cur) * backoffMultiplier)
	if next > b.max || next <= 0 {
		next = b.max
	}
	b.cur = next

	if b.jitter && d >= 4 {
		d += time.Duration(b.rnd.Int63n(int64(d / 4)))
	}
	return d
}

// Reset goes back to the initial delay after a success.
func (b *Backoff) Reset() {
	b.cur = b.initial
}

// Wait sleeps for Next() or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	timer := time.NewTimer(b.Next())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
