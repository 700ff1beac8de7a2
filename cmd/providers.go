package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/ai"
	"github.com/tanishkumarsahu/Code4Edtech/internal/ai/gemini"
	"github.com/tanishkumarsahu/Code4Edtech/internal/ai/googleai"
	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/secrets"
)

// newEvaluator builds the semantic evaluator chain from the AI config.
// A disabled or empty config yields a nil evaluator, which makes the scoring
// service fall back to the documented local result.
func newEvaluator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (screening.Evaluator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	providers := cfg.Providers
	if len(providers) == 0 {
		providers = []string{"gemini"}
	}

	generators := make([]ai.Generator, 0, len(providers))
	for _, provider := range providers {
		generator, err := newGenerator(ctx, cfg, provider, logger)
		if err != nil {
			return nil, fmt.Errorf("building %s provider: %w", provider, err)
		}
		generators = append(generators, generator)
	}

	return ai.NewChain(generators, logger, cfg.MaxLogLength), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, provider string, logger *zap.Logger) (ai.Generator, error) {
	switch strings.TrimSpace(strings.ToLower(provider)) {
	case "gemini":
		if cfg.Gemini == nil {
			cfg.Gemini = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
			Value: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}
		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)

	case "googleai":
		if cfg.GoogleAI == nil {
			cfg.GoogleAI = &GoogleAIConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "googleai api key",
			File:  cfg.GoogleAI.APIKeyFile,
			Env:   "GOOGLEAI_API_KEY",
			Value: cfg.GoogleAI.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.googleai.api-key-file or GOOGLEAI_API_KEY)", err)
		}
		return googleai.NewGenerator(ctx, apiKey, cfg.GoogleAI.Model)

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", provider)
	}
}
