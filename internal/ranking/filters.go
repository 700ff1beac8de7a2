package ranking

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

// Options are the candidate-list filters callers may request. They usually
// arrive as HTTP query parameters, so decoding is weakly typed.
type Options struct {
	JobID       string `mapstructure:"job_id"`
	Verdict     string `mapstructure:"verdict"`
	MinScore    *int   `mapstructure:"min_score"`
	Shortlisted *bool  `mapstructure:"shortlisted"`
}

// OptionsFromMap decodes generic key/value parameters into Options.
// String values like "75" and "true" are coerced to their typed fields.
func OptionsFromMap(params map[string]any) (*Options, error) {
	var options Options

	cfg := &mapstructure.DecoderConfig{
		Result:           &options,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build options decoder: %w", err)
	}
	if err := decoder.Decode(params); err != nil {
		return nil, fmt.Errorf("decode filter options: %w", err)
	}

	if options.Verdict != "" {
		switch screening.Verdict(options.Verdict) {
		case screening.VerdictHigh, screening.VerdictMedium, screening.VerdictLow:
		default:
			return nil, fmt.Errorf("unknown verdict %q", options.Verdict)
		}
	}

	if options.MinScore != nil && (*options.MinScore < 0 || *options.MinScore > 100) {
		return nil, fmt.Errorf("min_score must be within [0,100], got %d", *options.MinScore)
	}

	return &options, nil
}

// Filters returns the filter steps implied by the options, in a fixed order.
func (o *Options) Filters() []Filter {
	filters := make([]Filter, 0, 4)
	if o.JobID != "" {
		filters = append(filters, &jobFilter{jobID: o.JobID})
	}
	if o.Verdict != "" {
		filters = append(filters, &verdictFilter{verdict: screening.Verdict(o.Verdict)})
	}
	if o.MinScore != nil {
		filters = append(filters, &minScoreFilter{minScore: *o.MinScore})
	}
	if o.Shortlisted != nil {
		filters = append(filters, &shortlistFilter{shortlisted: *o.Shortlisted})
	}
	return filters
}

type jobFilter struct {
	jobID string
}

func (f *jobFilter) Name() string { return "job" }

func (f *jobFilter) Apply(candidates []*store.Candidate) ([]*store.Candidate, Step, error) {
	kept, step := keep(candidates, func(c *store.Candidate) bool {
		return c.Resume.JobID == f.jobID
	})
	return kept, step, nil
}

type verdictFilter struct {
	verdict screening.Verdict
}

func (f *verdictFilter) Name() string { return "verdict" }

func (f *verdictFilter) Apply(candidates []*store.Candidate) ([]*store.Candidate, Step, error) {
	kept, step := keep(candidates, func(c *store.Candidate) bool {
		return c.Report != nil && c.Report.Verdict == f.verdict
	})
	return kept, step, nil
}

type minScoreFilter struct {
	minScore int
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(candidates []*store.Candidate) ([]*store.Candidate, Step, error) {
	kept, step := keep(candidates, func(c *store.Candidate) bool {
		return c.Report != nil && c.Report.RelevanceScore >= f.minScore
	})
	return kept, step, nil
}

type shortlistFilter struct {
	shortlisted bool
}

func (f *shortlistFilter) Name() string { return "shortlisted" }

func (f *shortlistFilter) Apply(candidates []*store.Candidate) ([]*store.Candidate, Step, error) {
	kept, step := keep(candidates, func(c *store.Candidate) bool {
		return c.Resume.Shortlisted == f.shortlisted
	})
	return kept, step, nil
}

// Describe returns the names of the active filters, for logging.
func Describe(filters []Filter) string {
	names := make([]string, 0, len(filters))
	for _, f := range filters {
		names = append(names, f.Name())
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
