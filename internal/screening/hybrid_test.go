package screening

import "testing"

func TestCombineWeightsAndVerdict(t *testing.T) {
	cases := []struct {
		name        string
		hard        int
		semantic    int
		wantScore   int
		wantVerdict Verdict
	}{
		{"medium fit", 40, 90, 70, VerdictMedium},
		{"perfect fit", 100, 100, 100, VerdictHigh},
		{"no fit", 0, 0, 0, VerdictLow},
		{"high boundary", 80, 80, 80, VerdictHigh},
		{"just below high", 79, 79, 79, VerdictMedium},
		{"medium boundary", 50, 50, 50, VerdictMedium},
		{"just below medium", 49, 49, 49, VerdictLow},
		{"rounding up", 71, 71, 71, VerdictMedium},
	}

	scorer := NewHybridScorer(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := scorer.Combine(
				&HardMatchResult{Score: tc.hard},
				&SemanticResult{Score: tc.semantic},
			)
			if report.RelevanceScore != tc.wantScore {
				t.Fatalf("expected relevance %d, got %d", tc.wantScore, report.RelevanceScore)
			}
			if report.Verdict != tc.wantVerdict {
				t.Fatalf("expected verdict %s, got %s", tc.wantVerdict, report.Verdict)
			}
		})
	}
}

func TestCombineClampsOutOfRangeScores(t *testing.T) {
	report := NewHybridScorer(nil).Combine(
		&HardMatchResult{Score: -20},
		&SemanticResult{Score: 150, Confidence: 300},
	)

	if report.HardMatchScore != 0 {
		t.Fatalf("expected hard score clamped to 0, got %d", report.HardMatchScore)
	}
	if report.SemanticMatchScore != 100 {
		t.Fatalf("expected semantic score clamped to 100, got %d", report.SemanticMatchScore)
	}
	if report.RelevanceScore != 60 {
		t.Fatalf("expected relevance 60, got %d", report.RelevanceScore)
	}
	if report.ConfidenceScore != 100 {
		t.Fatalf("expected confidence clamped to 100, got %d", report.ConfidenceScore)
	}
}

func TestCombineCopiesSkillSetsAndQualitativeFields(t *testing.T) {
	hard := &HardMatchResult{
		Score:           50,
		Matched:         []string{"Go"},
		Missing:         []string{"Rust"},
		CriticalMissing: []string{"Rust"},
	}
	semantic := &SemanticResult{
		Score:      70,
		Strengths:  []string{"Solid backend experience"},
		Weaknesses: []string{"No systems programming"},
		Confidence: 85,
	}

	report := NewHybridScorer(nil).Combine(hard, semantic)

	if report.MatchedSkills[0] != "Go" || report.MissingSkills[0] != "Rust" {
		t.Fatalf("skill sets not carried over: %+v", report)
	}
	if report.Strengths[0] != "Solid backend experience" {
		t.Fatalf("strengths not carried over: %v", report.Strengths)
	}

	// Mutating the inputs must not leak into the report.
	hard.Matched[0] = "changed"
	semantic.Strengths[0] = "changed"
	if report.MatchedSkills[0] != "Go" || report.Strengths[0] != "Solid backend experience" {
		t.Fatalf("report shares slices with its inputs")
	}
}

func TestCombineUsesProviderBreakdownWhenPresent(t *testing.T) {
	report := NewHybridScorer(nil).Combine(
		&HardMatchResult{Score: 40},
		&SemanticResult{
			Score: 80,
			Breakdown: &ScoringBreakdown{
				Skills:     75,
				Experience: 82,
				Education:  90,
				Projects:   70,
				Overall:    110, // clamped
			},
		},
	)

	if report.ScoringBreakdown.Skills != 75 || report.ScoringBreakdown.Overall != 100 {
		t.Fatalf("provider breakdown not used: %+v", report.ScoringBreakdown)
	}
}

func TestCombineSynthesizesBreakdownWhenAbsent(t *testing.T) {
	report := NewHybridScorer(nil).Combine(
		&HardMatchResult{Score: 40},
		&SemanticResult{Score: 90},
	)

	breakdown := report.ScoringBreakdown
	if breakdown.Skills != 40 {
		t.Fatalf("expected skills sub-score 40, got %d", breakdown.Skills)
	}
	if breakdown.Overall != report.RelevanceScore {
		t.Fatalf("expected overall %d, got %d", report.RelevanceScore, breakdown.Overall)
	}
	if breakdown.Experience != report.RelevanceScore-5 {
		t.Fatalf("unexpected experience sub-score %d", breakdown.Experience)
	}
	if breakdown.Education != report.RelevanceScore+5 {
		t.Fatalf("unexpected education sub-score %d", breakdown.Education)
	}
	if breakdown.Projects != report.RelevanceScore-10 {
		t.Fatalf("unexpected projects sub-score %d", breakdown.Projects)
	}
}

func TestVerdictForIsTotal(t *testing.T) {
	for score := 0; score <= 100; score++ {
		verdict := VerdictFor(score)
		switch {
		case score >= HighThreshold && verdict != VerdictHigh:
			t.Fatalf("score %d: expected High, got %s", score, verdict)
		case score >= MediumThreshold && score < HighThreshold && verdict != VerdictMedium:
			t.Fatalf("score %d: expected Medium, got %s", score, verdict)
		case score < MediumThreshold && verdict != VerdictLow:
			t.Fatalf("score %d: expected Low, got %s", score, verdict)
		}
	}
}
