// Package ai adapts hosted text-generation providers into the semantic
// evaluation capability the scoring service consumes. Provider failures are
// absorbed here; callers always receive a complete result.
package ai

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/logger"
	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/utils"
)

// Generator is a pluggable text-generation backend.
type Generator interface {
	// Name identifies the provider in logs ("gemini", "googleai").
	Name() string
	// Model returns the configured model identifier.
	Model() string
	// GenerateContent sends the prompt and returns the raw textual reply.
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const defaultMaxLogLength = 200

// Chain evaluates a resume against a job by trying generators in their
// configured priority order. Each generator gets exactly one evaluation
// attempt per call; when all of them fail or return unusable output, the
// documented fallback result is substituted.
type Chain struct {
	generators []Generator
	logger     *zap.Logger
	maxLogLen  int
}

// NewChain builds the evaluator chain. Order of generators is the priority
// order. A nil logger is replaced with a no-op one.
func NewChain(generators []Generator, logger *zap.Logger, maxLogLength int) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Chain{
		generators: generators,
		logger:     logger,
		maxLogLen:  maxLogLength,
	}
}

// Evaluate implements screening.Evaluator. It never fails: any provider or
// parsing problem degrades to the fallback semantic result.
func (c *Chain) Evaluate(ctx context.Context, resumeText string, job *screening.JobDescription) *screening.SemanticResult {
	if len(c.generators) == 0 {
		c.logger.Debug("no semantic providers configured, using fallback result")
		return screening.FallbackSemanticResult()
	}

	prompt := BuildPrompt(resumeText, job)

	c.logger.Debug("semantic evaluation request",
		zap.String("job_id", job.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	for _, generator := range c.generators {
		if ctx.Err() != nil {
			c.logger.Warn("semantic evaluation cancelled, using fallback result",
				zap.String("job_id", job.ID),
				zap.Error(ctx.Err()),
			)
			return screening.FallbackSemanticResult()
		}

		providerLogger := logger.WithCommonFields(c.logger, generator.Name(), generator.Model()).
			With(zap.String("job_id", job.ID))

		raw, err := generator.GenerateContent(ctx, prompt)
		if err != nil {
			providerLogger.Warn("semantic provider failed, trying next", zap.Error(err))
			continue
		}

		providerLogger.Debug("semantic provider response",
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
		)

		result, err := ParseSemanticResult(raw)
		if err != nil {
			providerLogger.Warn("unusable semantic provider response, trying next", zap.Error(err))
			continue
		}

		providerLogger.Info("semantic evaluation completed",
			zap.Int("score", result.Score),
			zap.Int("confidence", result.Confidence),
		)
		return result
	}

	c.logger.Warn("all semantic providers exhausted, using fallback result",
		zap.String("job_id", job.ID),
		zap.Int("providers", len(c.generators)),
	)
	return screening.FallbackSemanticResult()
}
