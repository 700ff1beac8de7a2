package screening

import (
	"errors"
	"strings"
)

// Verdict is the categorical fit label derived from the relevance score.
type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

// Score weights and verdict thresholds. The 80/50 split follows the
// production scoring service; do not change one without the other.
const (
	HardWeight     = 0.4
	SemanticWeight = 0.6

	HighThreshold   = 80
	MediumThreshold = 50

	// NeutralHardScore is returned when a job lists no skills at all, so
	// there is nothing to match against.
	NeutralHardScore = 50
)

var (
	ErrEmptyResume = errors.New("resume text is empty")
	ErrNilJob      = errors.New("job description is required")
)

// JobDescription is a read-only job record supplied by the job store.
type JobDescription struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Company            string   `json:"company"`
	Description        string   `json:"description"`
	MustHaveSkills     []string `json:"must_have_skills"`
	GoodToHaveSkills   []string `json:"good_to_have_skills"`
	ExperienceRequired string   `json:"experience_required"`
	EducationRequired  []string `json:"education_required"`
}

// Validate reports whether the job carries enough data to be scored against.
func (j *JobDescription) Validate() error {
	if j == nil {
		return ErrNilJob
	}
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("job title is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		return errors.New("job description text is required")
	}
	return nil
}

// AllSkills returns must-have and good-to-have skills with duplicates
// collapsed case-insensitively, preserving first-seen spelling and order.
func (j *JobDescription) AllSkills() []string {
	seen := make(map[string]struct{}, len(j.MustHaveSkills)+len(j.GoodToHaveSkills))
	all := make([]string, 0, len(j.MustHaveSkills)+len(j.GoodToHaveSkills))

	for _, skill := range append(append([]string{}, j.MustHaveSkills...), j.GoodToHaveSkills...) {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		all = append(all, strings.TrimSpace(skill))
	}

	return all
}

// HardMatchResult is the outcome of the keyword/skill comparison.
type HardMatchResult struct {
	Score           int      `json:"score"`
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	CriticalMissing []string `json:"critical_missing"`
}

// ScoringBreakdown carries per-area sub-scores. When the semantic provider
// does not supply one, the hybrid scorer synthesizes it from the relevance
// score; callers must not treat sub-scores as independently validated.
type ScoringBreakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Education  int `json:"education"`
	Projects   int `json:"projects"`
	Overall    int `json:"overall"`
}

// ScoreReport is the full analysis handed back to callers. Its score and
// skill-set fields form the wire contract with the dashboard and exports.
type ScoreReport struct {
	HardMatchScore     int     `json:"hard_match_score"`
	SemanticMatchScore int     `json:"semantic_match_score"`
	RelevanceScore     int     `json:"relevance_score"`
	Verdict            Verdict `json:"verdict"`

	MatchedSkills         []string `json:"matched_skills"`
	MissingSkills         []string `json:"missing_skills"`
	CriticalMissingSkills []string `json:"critical_missing_skills"`

	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	MissingCertifications []string `json:"missing_certifications"`
	MissingProjects       []string `json:"missing_projects"`
	ExperienceGaps        []string `json:"experience_gaps"`
	EducationGaps         []string `json:"education_gaps"`
	Suggestions           []string `json:"suggestions"`
	RecommendedCourses    []string `json:"recommended_courses"`
	RecommendedProjects   []string `json:"recommended_projects"`
	ImmediateActions      []string `json:"immediate_actions"`
	ShortTermGoals        []string `json:"short_term_goals"`
	LongTermGoals         []string `json:"long_term_goals"`

	SkillsBreakdown  map[string]string `json:"skills_breakdown,omitempty"`
	ScoringBreakdown ScoringBreakdown  `json:"scoring_breakdown"`

	ConfidenceScore int `json:"confidence_score"`
}

// VerdictFor buckets a relevance score into a verdict. Total over [0,100].
func VerdictFor(relevance int) Verdict {
	switch {
	case relevance >= HighThreshold:
		return VerdictHigh
	case relevance >= MediumThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}
