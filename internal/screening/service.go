package screening

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Service runs the full scoring flow for one (resume, job) pair: hard match,
// semantic evaluation, hybrid combination. It is stateless; concurrent calls
// need no coordination.
type Service struct {
	matcher   *SkillMatcher
	evaluator Evaluator
	scorer    *HybridScorer
	logger    *zap.Logger
}

// NewService wires the scoring components together. The evaluator may be nil,
// in which case every report uses the fallback semantic result.
func NewService(matcher *SkillMatcher, evaluator Evaluator, scorer *HybridScorer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		matcher:   matcher,
		evaluator: evaluator,
		scorer:    scorer,
		logger:    logger,
	}
}

// Score returns a complete, invariant-satisfying report, or an error only
// when the input itself is invalid. Semantic-provider failures never surface
// here; the evaluator absorbs them into the fallback result.
func (s *Service) Score(ctx context.Context, resumeText string, job *JobDescription) (*ScoreReport, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResume
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	hard, err := s.matcher.Match(resumeText, job)
	if err != nil {
		return nil, err
	}

	semantic := s.evaluate(ctx, resumeText, job)

	report := s.scorer.Combine(hard, semantic)

	s.logger.Info("resume scored",
		zap.String("job_id", job.ID),
		zap.Int("hard_match_score", report.HardMatchScore),
		zap.Int("semantic_match_score", report.SemanticMatchScore),
		zap.Int("relevance_score", report.RelevanceScore),
		zap.String("verdict", string(report.Verdict)),
		zap.Bool("semantic_fallback", semantic.Fallback),
	)

	return report, nil
}

func (s *Service) evaluate(ctx context.Context, resumeText string, job *JobDescription) *SemanticResult {
	if s.evaluator == nil {
		s.logger.Debug("no semantic evaluator configured, using fallback result")
		return FallbackSemanticResult()
	}

	semantic := s.evaluator.Evaluate(ctx, resumeText, job)
	if semantic == nil {
		// Evaluators must not return nil, but a broken one must not take
		// the whole scoring operation down with it.
		s.logger.Warn("evaluator returned nil result, using fallback")
		return FallbackSemanticResult()
	}

	return semantic
}
