package llm

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Client for testing. Responses can be varied per call by
// matching a substring of the system instruction.
type MockClient struct {
	// Configurable behavior
	ResponseText string
	TotalTokens  int
	ShouldFail   bool
	FailWhen     func(req ChatRequest) bool // optional, overrides ShouldFail when set
	Latency      time.Duration

	// ResponseFor maps a substring of the system instruction to a canned
	// reply, checked before ResponseText.
	ResponseFor map[string]string

	calls atomic.Int64
}

func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
		TotalTokens:  42,
	}
}

func (c *MockClient) Name() string { return MockName }

// Calls reports how many chat requests were issued.
func (c *MockClient) Calls() int { return int(c.calls.Load()) }

func (c *MockClient) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	count := c.calls.Add(1)

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fail := c.ShouldFail
	if c.FailWhen != nil {
		fail = c.FailWhen(req)
	}
	if fail {
		return nil, fmt.Errorf("mock client configured to fail (call %d)", count)
	}

	content := c.ResponseText
	for needle, reply := range c.ResponseFor {
		if strings.Contains(req.System, needle) {
			content = reply
			break
		}
	}

	total := c.TotalTokens
	return &ChatResult{
		Content:          content,
		Model:            req.Model,
		PromptTokens:     total / 2,
		CompletionTokens: total - total/2,
		TotalTokens:      total,
	}, nil
}
