package screening

import (
	"math"

	"go.uber.org/zap"
)

// HybridScorer merges the hard and semantic results into a single report.
// Pure data combination: given well-formed inputs it cannot fail.
type HybridScorer struct {
	logger *zap.Logger
}

// NewHybridScorer creates a scorer. A nil logger is replaced with a no-op one.
func NewHybridScorer(logger *zap.Logger) *HybridScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridScorer{logger: logger}
}

// Combine produces the final report: weighted relevance score, verdict,
// skill sets copied from the matcher, qualitative fields copied from the
// semantic result, and a scoring breakdown (provider-supplied or synthesized).
func (s *HybridScorer) Combine(hard *HardMatchResult, semantic *SemanticResult) *ScoreReport {
	hardScore := clampScore(hard.Score)
	semanticScore := clampScore(semantic.Score)

	relevance := int(math.Round(float64(hardScore)*HardWeight + float64(semanticScore)*SemanticWeight))
	verdict := VerdictFor(relevance)

	report := &ScoreReport{
		HardMatchScore:     hardScore,
		SemanticMatchScore: semanticScore,
		RelevanceScore:     relevance,
		Verdict:            verdict,

		MatchedSkills:         copyList(hard.Matched),
		MissingSkills:         copyList(hard.Missing),
		CriticalMissingSkills: copyList(hard.CriticalMissing),

		Strengths:             copyList(semantic.Strengths),
		Weaknesses:            copyList(semantic.Weaknesses),
		MissingCertifications: copyList(semantic.MissingCertifications),
		MissingProjects:       copyList(semantic.MissingProjects),
		ExperienceGaps:        copyList(semantic.ExperienceGaps),
		EducationGaps:         copyList(semantic.EducationGaps),
		Suggestions:           copyList(semantic.Suggestions),
		RecommendedCourses:    copyList(semantic.RecommendedCourses),
		RecommendedProjects:   copyList(semantic.RecommendedProjects),
		ImmediateActions:      copyList(semantic.ImmediateActions),
		ShortTermGoals:        copyList(semantic.ShortTermGoals),
		LongTermGoals:         copyList(semantic.LongTermGoals),

		SkillsBreakdown: semantic.SkillsBreakdown,
		ConfidenceScore: clampScore(semantic.Confidence),
	}

	if semantic.Breakdown != nil {
		report.ScoringBreakdown = ScoringBreakdown{
			Skills:     clampScore(semantic.Breakdown.Skills),
			Experience: clampScore(semantic.Breakdown.Experience),
			Education:  clampScore(semantic.Breakdown.Education),
			Projects:   clampScore(semantic.Breakdown.Projects),
			Overall:    clampScore(semantic.Breakdown.Overall),
		}
	} else {
		report.ScoringBreakdown = synthesizeBreakdown(hardScore, relevance)
	}

	s.logger.Debug("hybrid score combined",
		zap.Int("hard", hardScore),
		zap.Int("semantic", semanticScore),
		zap.Int("relevance", relevance),
		zap.String("verdict", string(verdict)),
	)

	return report
}

// synthesizeBreakdown derives sub-scores as small offsets from the known
// scores when the provider did not supply a breakdown. A heuristic, not a
// model: skills reflect the hard match, the rest hover around the relevance
// score.
func synthesizeBreakdown(hardScore, relevance int) ScoringBreakdown {
	return ScoringBreakdown{
		Skills:     hardScore,
		Experience: clampScore(relevance - 5),
		Education:  clampScore(relevance + 5),
		Projects:   clampScore(relevance - 10),
		Overall:    relevance,
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
