package connection

import (
	"math/rand/v2"
	"time"
)

// Backoff computes reconnect delays.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
	Jitter float64
}

// NewBackoff derives the reconnect policy from cfg.
func NewBackoff(cfg FeedConfig) Backoff {
	return Backoff{
		Base:   cfg.ReconnectDelay,
		Max:    cfg.ReconnectMaxDelay,
		Factor: 2.0,
		Jitter: cfg.ReconnectJitter,
	}
}

// Next returns the delay before the given attempt (1-based). With Max at or
// below Base every attempt waits exactly Base.
func (b Backoff) Next(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	base := b.Base
	if base <= 0 {
		base = 5 * time.Second
	}
	if b.Max <= base {
		return base
	}
	factor := b.Factor
	if factor <= 1 {
		factor = 2.0
	}

	wait := base
	for i := 1; i < attempt; i++ {
		next := time.Duration(float64(wait) * factor)
		if next > b.Max {
			wait = b.Max
			break
		}
		wait = next
	}

	if b.Jitter <= 0 {
		return wait
	}
	jitter := b.Jitter
	if jitter > 1 {
		jitter = 1
	}
	delta := float64(wait) * jitter
	return wait - time.Duration(delta) + time.Duration(rand.Float64()*2*delta)
}
