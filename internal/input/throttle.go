package input

import (
	"time"

	"golang.org/x/time/rate"
)

// Throttle accepts the first signal and then drops every signal stamped
// within window of the last accepted one. Dropped signals are not queued
// and do not extend the cooldown.
//
// It is a token bucket of size one refilled once per window, driven by the
// signal stamps instead of the wall clock.
type Throttle struct {
	limiter *rate.Limiter
}

func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{limiter: rate.NewLimiter(rate.Every(window), 1)}
}

// Allow reports whether a signal stamped at may pass, and if so starts a
// new cooldown from it.
func (t *Throttle) Allow(at time.Time) bool {
	return t.limiter.AllowN(at, 1)
}
