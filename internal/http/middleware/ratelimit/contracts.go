package ratelimit

import "time"

// Decision is the outcome of taking one token for a client key.
type Decision struct {
	Allowed bool
	// Remaining is the number of whole tokens left, or -1 when the limiter does not count.
	Remaining int
	// RetryIn is how long the client should wait before the next token is available.
	RetryIn time.Duration
}

// Limiter hands out request tokens per client key.
type Limiter interface {
	Take(key string) Decision
}

// Unlimited admits every request.
type Unlimited struct{}

// Take always allows.
func (Unlimited) Take(string) Decision { return Decision{Allowed: true, Remaining: -1} }
