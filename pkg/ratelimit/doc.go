// Package ratelimit provides client-side request throttling for API calls.
//
// TokenBucket wraps golang.org/x/time/rate. The Twitter follower and friend
// list endpoints allow 15 requests per 15 minutes, which the default
// configuration expresses as one request per minute with a burst of 15.
//
// Usage:
//
//	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
//	if err := limiter.Wait(ctx); err != nil {
//		return err
//	}
package ratelimit
