package screening

import (
	"math"
	"strings"

	"go.uber.org/zap"
)

// SkillMatcher performs the "hard match": a literal/fuzzy presence check of
// the job's skill lists against the resume text. It holds no per-call state
// and is safe for concurrent use.
type SkillMatcher struct {
	logger *zap.Logger
}

// NewSkillMatcher creates a matcher. A nil logger is replaced with a no-op one.
func NewSkillMatcher(logger *zap.Logger) *SkillMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillMatcher{logger: logger}
}

// Match compares the resume text against the job's must-have and good-to-have
// skills. Every skill from the (deduplicated) union lands in exactly one of
// matched or missing; critical missing skills are the missing must-haves.
//
// The score is the matched share of the union, rounded to [0,100]. A job
// with no skills at all yields NeutralHardScore rather than a division by
// zero.
func (m *SkillMatcher) Match(resumeText string, job *JobDescription) (*HardMatchResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, ErrEmptyResume
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	resumeLower := strings.ToLower(resumeText)

	mustHave := make(map[string]struct{}, len(job.MustHaveSkills))
	for _, skill := range job.MustHaveSkills {
		mustHave[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}

	all := job.AllSkills()
	result := &HardMatchResult{
		Matched:         []string{},
		Missing:         []string{},
		CriticalMissing: []string{},
	}

	if len(all) == 0 {
		result.Score = NeutralHardScore
		m.logger.Debug("job lists no skills, using neutral hard score",
			zap.String("job_id", job.ID),
			zap.Int("score", result.Score),
		)
		return result, nil
	}

	for _, skill := range all {
		if skillPresent(skill, resumeLower) {
			result.Matched = append(result.Matched, skill)
			continue
		}
		result.Missing = append(result.Missing, skill)
		if _, critical := mustHave[strings.ToLower(skill)]; critical {
			result.CriticalMissing = append(result.CriticalMissing, skill)
		}
	}

	result.Score = int(math.Round(100 * float64(len(result.Matched)) / float64(len(all))))

	m.logger.Debug("hard match completed",
		zap.String("job_id", job.ID),
		zap.Int("score", result.Score),
		zap.Int("matched", len(result.Matched)),
		zap.Int("missing", len(result.Missing)),
		zap.Int("critical_missing", len(result.CriticalMissing)),
	)

	return result, nil
}

// skillPresent checks for the skill itself and then for any known variant
// from the variations table.
func skillPresent(skill, resumeLower string) bool {
	skillLower := strings.ToLower(strings.TrimSpace(skill))
	if skillLower == "" {
		return false
	}

	if strings.Contains(resumeLower, skillLower) {
		return true
	}

	for _, variant := range skillVariations[skillLower] {
		if strings.Contains(resumeLower, variant) {
			return true
		}
	}

	return false
}
