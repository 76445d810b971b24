// Package textgen adapts the OpenAI chat API to the TextGenerator port.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/guardian-io/guardian/pkg/options"
)

const systemPrompt = "You write concise, friendly customer communication for a vehicle service operation. Answer with the message text only."

// Generator is the remote text-generation collaborator. One attempt per
// call with a bounded timeout; callers own the fallback.
type Generator struct {
	client      *openai.Client
	model       string
	timeout     timeoutFn
	temperature float32
}

type timeoutFn func(ctx context.Context) (context.Context, context.CancelFunc)

// New builds the generator, or returns nil when no API key is configured
// so that callers fall back to templates everywhere.
func New(opts *options.OpenAIOptions) *Generator {
	if opts == nil || opts.APIKey == "" {
		return nil
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	timeout := opts.Timeout
	return &Generator{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: float32(opts.Temperature),
		timeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, timeout)
		},
	}
}

// Generate performs one chat completion. No retry: a failed attempt is the
// caller's cue to use its deterministic fallback.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.timeout(ctx)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
