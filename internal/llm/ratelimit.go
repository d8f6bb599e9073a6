package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedClient throttles an underlying client to a fixed number of
// requests per minute. Burst of one keeps calls evenly spaced, which is what
// provider-side per-minute quotas actually reward.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

func newRateLimitedClient(inner Client, requestsPerMinute int) Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (c *rateLimitedClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter canceled: %w", err)
	}
	return c.inner.Complete(ctx, system, prompt)
}
