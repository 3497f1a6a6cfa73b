// Package llm is the boundary to external chat-completion providers. The
// rewrite pipeline depends only on Client so tests can count and fail calls.
package llm

import (
	"context"
	"time"
)

// ChatRequest is a single system+user chat completion request.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

// ChatResult carries the reply text and the token usage reported by the
// provider. Usage fields are zero when the provider omits them.
type ChatResult struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Latency          time.Duration
}

type Client interface {
	// Chat sends one completion request. Implementations must honor the
	// request timeout and return an error on call failure, timeout, or
	// rate limiting; degradation policy is the caller's concern.
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}
