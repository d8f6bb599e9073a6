// Package llm provides the external model adapters: free-text extraction of
// catalog candidates, batch similarity matching against the catalog, and
// targeted revision of a single staged record.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers. Providers return the raw
// text of the model's reply; shaping that text into domain records is the
// adapter layer's job.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config holds provider selection and tuning for LLM clients.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
