package ratelimit

import "time"

// LoginGuard combines the sliding-window rate limiter with per-client
// failure tracking and an exponential delay on repeated failures. One guard
// is shared by the password and fingerprint login endpoints.
type LoginGuard struct {
	limiter *LoginRateLimiter
	tracker *LoginAttemptTracker
	backoff *Backoff
	sleep   func(time.Duration)
}

func NewLoginGuard(maxAttempts int, window, block time.Duration) *LoginGuard {
	return &LoginGuard{
		limiter: NewLoginRateLimiter(maxAttempts, window, block),
		tracker: NewLoginAttemptTracker(),
		backoff: NewBackoff(500*time.Millisecond, 10*time.Second, 2.0),
		sleep:   time.Sleep,
	}
}

// Check reports whether clientID may attempt a login now. When blocked, the
// second return value is how long the client must wait.
func (g *LoginGuard) Check(clientID string) (bool, time.Duration) {
	return g.limiter.Check(clientID)
}

// Delay records a failed attempt and sleeps for the backoff duration, slowing
// down credential-guessing without revealing which check failed.
func (g *LoginGuard) Delay(clientID string) {
	g.tracker.RecordFailure(clientID)
	g.sleep(g.backoff.Duration(g.tracker.GetFailedAttempts(clientID)))
}

// Reset clears clientID's failure history after a successful login.
func (g *LoginGuard) Reset(clientID string) {
	g.tracker.RecordSuccess(clientID)
	g.limiter.Reset(clientID)
}
