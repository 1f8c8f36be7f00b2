package provider

import (
	"context"
	"time"

	"codesensei/internal/errdefs"
)

const (
	// maxRetries is the number of additional attempts after the first.
	maxRetries = 3
	// baseDelay is the first backoff interval; each retry doubles it
	// (5s, 10s, 20s), bounding worst-case latency to ~75s.
	baseDelay = 5 * time.Second
)

// SleepFunc lets tests observe and skip the backoff sleeps.
type SleepFunc func(time.Duration)

// Caller wraps an Adapter's Complete with bounded exponential backoff on
// rate-limit errors. Every other error propagates immediately.
type Caller struct {
	adapter Adapter
	sleep   SleepFunc
}

// NewCaller wraps adapter with the default time.Sleep backoff.
func NewCaller(adapter Adapter) *Caller {
	return &Caller{adapter: adapter, sleep: time.Sleep}
}

// NewCallerWithSleep wraps adapter with a custom sleep function.
func NewCallerWithSleep(adapter Adapter, sleep SleepFunc) *Caller {
	return &Caller{adapter: adapter, sleep: sleep}
}

// Complete issues the completion, retrying up to 3 times on rate limits.
// The final rate-limit error propagates unchanged.
func (c *Caller) Complete(ctx context.Context, prompt, system string, maxOutputTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, err := c.adapter.Complete(ctx, prompt, system, maxOutputTokens)
		if err == nil {
			return text, nil
		}
		if !errdefs.IsRateLimit(err) {
			return "", err
		}
		lastErr = err
		if attempt < maxRetries {
			c.sleep(baseDelay * (1 << attempt))
		}
	}
	return "", lastErr
}
