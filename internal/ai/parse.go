package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
)

//go:embed semantic_result.schema.json
var semanticResultSchema string

// semanticPayload mirrors the JSON shape providers are asked to return.
// Numbers are float64 because models occasionally emit fractional scores.
type semanticPayload struct {
	Score float64 `json:"score"`

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

	SkillsBreakdown  map[string]string `json:"skills_breakdown"`
	ScoringBreakdown *struct {
		Skills     float64 `json:"skills"`
		Experience float64 `json:"experience"`
		Education  float64 `json:"education"`
		Projects   float64 `json:"projects"`
		Overall    float64 `json:"overall"`
	} `json:"scoring_breakdown"`

	Confidence *float64 `json:"confidence"`
}

const defaultConfidence = 70

// ParseSemanticResult extracts the first balanced JSON object from a provider
// reply, validates it against the embedded schema, and decodes it. Any
// extraction, validation, or decoding failure is returned as an error so the
// caller can substitute the fallback result wholesale; untyped output is
// never partially trusted.
func ParseSemanticResult(raw string) (*screening.SemanticResult, error) {
	payload := ExtractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object found in provider response")
	}

	schema := gojsonschema.NewStringLoader(semanticResultSchema)
	document := gojsonschema.NewStringLoader(payload)

	validation, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return nil, fmt.Errorf("validate provider response: %w", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, issue := range validation.Errors() {
			issues = append(issues, issue.String())
		}
		return nil, fmt.Errorf("provider response failed schema validation: %s", strings.Join(issues, "; "))
	}

	var decoded semanticPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	return normalize(&decoded), nil
}

// normalize converts the validated payload into a complete SemanticResult,
// filling every missing field with the documented default so downstream code
// never sees a partial result.
func normalize(p *semanticPayload) *screening.SemanticResult {
	defaults := screening.FallbackSemanticResult()

	result := &screening.SemanticResult{
		Score:                 roundScore(p.Score),
		Strengths:             listOrDefault(p.Strengths, defaults.Strengths),
		Weaknesses:            listOrDefault(p.Weaknesses, defaults.Weaknesses),
		MissingCertifications: listOrDefault(p.MissingCertifications, defaults.MissingCertifications),
		MissingProjects:       listOrDefault(p.MissingProjects, defaults.MissingProjects),
		ExperienceGaps:        listOrDefault(p.ExperienceGaps, defaults.ExperienceGaps),
		EducationGaps:         listOrDefault(p.EducationGaps, defaults.EducationGaps),
		Suggestions:           listOrDefault(p.Suggestions, defaults.Suggestions),
		RecommendedCourses:    listOrDefault(p.RecommendedCourses, defaults.RecommendedCourses),
		RecommendedProjects:   listOrDefault(p.RecommendedProjects, defaults.RecommendedProjects),
		ImmediateActions:      listOrDefault(p.ImmediateActions, defaults.ImmediateActions),
		ShortTermGoals:        listOrDefault(p.ShortTermGoals, defaults.ShortTermGoals),
		LongTermGoals:         listOrDefault(p.LongTermGoals, defaults.LongTermGoals),
		SkillsBreakdown:       p.SkillsBreakdown,
		Confidence:            defaultConfidence,
	}

	if p.Confidence != nil {
		result.Confidence = roundScore(*p.Confidence)
	}

	if p.ScoringBreakdown != nil {
		result.Breakdown = &screening.ScoringBreakdown{
			Skills:     roundScore(p.ScoringBreakdown.Skills),
			Experience: roundScore(p.ScoringBreakdown.Experience),
			Education:  roundScore(p.ScoringBreakdown.Education),
			Projects:   roundScore(p.ScoringBreakdown.Projects),
			Overall:    roundScore(p.ScoringBreakdown.Overall),
		}
	}

	return result
}

// ExtractJSON strips markdown code fences and returns the first balanced
// {...} span of the input, or empty when none exists. Quote-aware, so braces
// inside JSON strings do not confuse the scan.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
		raw = strings.TrimSpace(raw)
	}

	start := strings.Index(raw, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}

	return ""
}

func roundScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func listOrDefault(list, fallback []string) []string {
	cleaned := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	if len(cleaned) == 0 {
		return append([]string{}, fallback...)
	}
	return cleaned
}
