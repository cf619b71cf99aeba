package ratelimiter

// RateLimiter decides whether a request may proceed.
type RateLimiter interface {
	// Allow returns true if the request is admitted, false if it should be rejected.
	Allow() bool
}
