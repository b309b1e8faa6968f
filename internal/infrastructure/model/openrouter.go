// Package model implements the outbound model-client port. The model is a
// pure black box: send a prompt, receive text; no other contract is assumed.
package model

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/calderlane/promptward/internal/domain"
	"github.com/calderlane/promptward/internal/ports"
)

// OpenRouterClient talks to an OpenAI-compatible completion endpoint
// (OpenRouter by default) for single-shot completions.
type OpenRouterClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenRouterClient builds a client for the configured model.
func NewOpenRouterClient(cfg domain.ModelSettings, apiKey string) *OpenRouterClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else {
		clientCfg.BaseURL = domain.DefaultBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}

	return &OpenRouterClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Name,
		maxTokens: maxTokens,
	}
}

// Name implements ports.ModelClient.
func (c *OpenRouterClient) Name() string {
	return c.model
}

// Call implements ports.ModelClient. An empty choice list is an empty but
// successful completion, not a failure.
func (c *OpenRouterClient) Call(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ports.ModelClient = (*OpenRouterClient)(nil)
