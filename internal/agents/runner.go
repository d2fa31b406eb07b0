package agents

import (
	"context"
	"sync"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
	"golang.org/x/sync/errgroup"
)

// Runner fans the four evaluators out over one piece of text and joins
// their results. Evaluators absorb their own failures, so the group
// never returns an error; the errgroup is used for its context plumbing.
type Runner struct {
	evaluators []Evaluator
}

// NewRunner creates a runner over the standard four evaluators
func NewRunner(provider llm.Provider) *Runner {
	return &Runner{
		evaluators: []Evaluator{
			NewFactChecker(provider),
			NewSourceAnalyst(provider),
			NewContextGuardian(provider),
			NewFreshnessDetector(provider),
		},
	}
}

// NewRunnerWith creates a runner over a custom evaluator set
func NewRunnerWith(evaluators ...Evaluator) *Runner {
	return &Runner{evaluators: evaluators}
}

// Count returns the number of evaluators run per segment
func (r *Runner) Count() int {
	return len(r.evaluators)
}

// EvaluateAll runs every evaluator concurrently and returns one result
// per agent dimension
func (r *Runner) EvaluateAll(ctx context.Context, text string, sources []model.Source) map[model.AgentName]model.AgentResult {
	results := make(map[model.AgentName]model.AgentResult, len(r.evaluators))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, evaluator := range r.evaluators {
		evaluator := evaluator
		g.Go(func() error {
			result := evaluator.Evaluate(gctx, text, sources)
			mu.Lock()
			results[evaluator.Name()] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
