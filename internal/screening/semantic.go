package screening

import "context"

// SemanticResult is the structured outcome of the language-model evaluation.
// Callers always receive a complete result: when the provider is unavailable
// or returns something unusable, the evaluator substitutes FallbackSemanticResult.
type SemanticResult struct {
	Score int `json:"score"`

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

	SkillsBreakdown map[string]string `json:"skills_breakdown,omitempty"`
	Breakdown       *ScoringBreakdown `json:"scoring_breakdown,omitempty"`

	Confidence int `json:"confidence"`

	// Fallback marks results synthesized locally instead of coming from a
	// provider. Informational only.
	Fallback bool `json:"fallback,omitempty"`
}

// Evaluator is the external semantic-match capability. Implementations must
// never fail: provider errors, timeouts, and unparseable output are absorbed
// and converted into the documented fallback result.
type Evaluator interface {
	Evaluate(ctx context.Context, resumeText string, job *JobDescription) *SemanticResult
}

// FallbackSemanticResult returns the fixed result used whenever no provider
// can produce a usable evaluation. The moderate score keeps the combined
// relevance in a plausible range while the qualitative fields stay generic.
func FallbackSemanticResult() *SemanticResult {
	return &SemanticResult{
		Score: 60,
		Strengths: []string{
			"Relevant professional experience",
			"Good technical background",
		},
		Weaknesses: []string{
			"Skill alignment with the role could be stronger",
			"Few quantifiable achievements",
		},
		MissingCertifications: []string{"Consider certifications relevant to the role"},
		MissingProjects:       []string{"Add projects that demonstrate the required skills"},
		ExperienceGaps:        []string{"Experience details could map more directly to the job requirements"},
		EducationGaps:         []string{"No specific education gaps identified"},
		Suggestions: []string{
			"Add quantifiable achievements",
			"Include certifications relevant to the position",
			"Highlight projects that use the required skills",
		},
		RecommendedCourses:  []string{"Courses covering the job's core skills"},
		RecommendedProjects: []string{"A portfolio project exercising the must-have skills"},
		ImmediateActions:    []string{"Tailor the resume summary to this job"},
		ShortTermGoals:      []string{"Close the most critical skill gaps"},
		LongTermGoals:       []string{"Build depth in the role's primary technology area"},
		Confidence:          40,
		Fallback:            true,
	}
}
