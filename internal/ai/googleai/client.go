// Package googleai provides a secondary semantic provider that reaches the
// Gemini models through the langchaingo googleai integration. It exists so
// the evaluation chain has a second backend to fall through to when the
// primary client fails.
package googleai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const defaultModel = "gemini-1.5-flash"

// Generator adapts a langchaingo model to the ai.Generator contract.
type Generator struct {
	llm   llms.Model
	model string
}

// NewGenerator creates a langchaingo-backed generator.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("googleai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create googleai client: %w", err)
	}

	return &Generator{llm: llm, model: model}, nil
}

func (g *Generator) Name() string { return "googleai" }

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent sends the prompt through langchaingo and returns the reply.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.llm == nil {
		return "", errors.New("googleai generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp = strings.TrimSpace(resp); resp == "" {
		return "", errors.New("googleai returned empty response")
	}

	return resp, nil
}
