// Package ranking narrows candidate lists for dashboards and exports by
// running an ordered sequence of filter steps over scored resumes.
package ranking

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

// Filter represents a single filtering step applied to candidates.
type Filter interface {
	Name() string
	Apply(candidates []*store.Candidate) ([]*store.Candidate, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, logging each step.
func Run(logger *zap.Logger, filters []Filter, candidates []*store.Candidate) ([]*store.Candidate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, filter := range filters {
		next, info, err := filter.Apply(candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filter.Name(), err)
		}

		logger.Debug("candidate filter step",
			zap.String("name", filter.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates, nil
}

// keep retains candidates matching the predicate, preserving order.
func keep(candidates []*store.Candidate, predicate func(*store.Candidate) bool) ([]*store.Candidate, Step) {
	initial := len(candidates)
	kept := make([]*store.Candidate, 0, initial)
	for _, c := range candidates {
		if predicate(c) {
			kept = append(kept, c)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
