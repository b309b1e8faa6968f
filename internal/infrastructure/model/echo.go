package model

import (
	"context"
	"fmt"

	"github.com/calderlane/promptward/internal/ports"
)

// EchoClient is the offline fallback used when no API credential is
// configured. It produces a deterministic canned completion so the wrapper
// pipeline, tracing, and evaluation commands stay runnable without network
// access.
type EchoClient struct {
	model string
}

func NewEchoClient(model string) *EchoClient {
	return &EchoClient{model: model}
}

func (c *EchoClient) Name() string {
	return c.model
}

func (c *EchoClient) Call(_ context.Context, prompt string) (string, error) {
	return fmt.Sprintf("Offline fallback response to: %s", prompt), nil
}

var _ ports.ModelClient = (*EchoClient)(nil)
