package onboarding

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how often a code may be sent to one phone number
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*phoneLimiter
	now      func() time.Time
}

type phoneLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewThrottle allows one send per interval for each phone number
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		limiters: make(map[string]*phoneLimiter),
		now:      time.Now,
	}
}

// Reserve takes the send slot for phone. When the slot is free it returns a
// release func that hands the slot back, for sends that never went out.
// Otherwise release is nil and wait is how long the caller has to wait.
func (t *Throttle) Reserve(phone string) (release func(), wait time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	pl, ok := t.limiters[phone]
	if !ok {
		pl = &phoneLimiter{lim: rate.NewLimiter(rate.Every(t.interval), 1)}
		t.limiters[phone] = pl
	}
	pl.seen = now

	r := pl.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return nil, delay
	}
	// cancelling at a later instant would be a no-op once the slot was due
	return func() { r.CancelAt(now) }, 0
}

// prune drops limiters idle long enough to have refilled
func (t *Throttle) prune(now time.Time) {
	for phone, pl := range t.limiters {
		if now.Sub(pl.seen) > t.interval {
			delete(t.limiters, phone)
		}
	}
}
