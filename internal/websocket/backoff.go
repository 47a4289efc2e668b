package websocket

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultMaxReconnectAttempts bounds the reconnect budget
	DefaultMaxReconnectAttempts = 5

	// DefaultReconnectBaseDelay is multiplied by the attempt number
	DefaultReconnectBaseDelay = 2 * time.Second
)

// LinearBackOff waits BaseDelay * n before the nth retry and stops after
// MaxAttempts retries. Reset is called once a connection is established.
type LinearBackOff struct {
	BaseDelay   time.Duration
	MaxAttempts int

	attempts int
}

var _ backoff.BackOff = (*LinearBackOff)(nil)

// NewLinearBackOff creates a policy, falling back to the defaults for
// non-positive values
func NewLinearBackOff(baseDelay time.Duration, maxAttempts int) *LinearBackOff {
	if baseDelay <= 0 {
		baseDelay = DefaultReconnectBaseDelay
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxReconnectAttempts
	}
	return &LinearBackOff{BaseDelay: baseDelay, MaxAttempts: maxAttempts}
}

// NextBackOff returns the delay before the next attempt, or backoff.Stop
// once the budget is spent
func (b *LinearBackOff) NextBackOff() time.Duration {
	if b.attempts >= b.MaxAttempts {
		return backoff.Stop
	}
	b.attempts++
	return b.BaseDelay * time.Duration(b.attempts)
}

// Reset clears the attempt counter
func (b *LinearBackOff) Reset() {
	b.attempts = 0
}

// Attempts returns how many retries have been scheduled since the last Reset
func (b *LinearBackOff) Attempts() int {
	return b.attempts
}
