package score

import (
	"math"

	"github.com/ottoverify/otto/internal/model"
)

// Scorer folds the four agent dimensions into one 0-100 reliability
// value. The context dimension measures omission severity, so it is
// inverted here: a high context score means heavy omission and drags
// the reliability value down.
type Scorer struct {
	weights model.ScoringConfig
}

// New creates a scorer from the weight policy table. Non-positive
// weight sets fall back to the standard 0.4/0.3/0.2/0.1 split.
func New(weights model.ScoringConfig) *Scorer {
	total := weights.FactWeight + weights.SourceWeight + weights.ContextWeight + weights.FreshnessWeight
	if total <= 0 {
		weights = model.ScoringConfig{
			FactWeight:      0.4,
			SourceWeight:    0.3,
			ContextWeight:   0.2,
			FreshnessWeight: 0.1,
		}
	}
	return &Scorer{weights: weights}
}

// Compute combines aggregated per-dimension scores into the final
// reliability score with its per-dimension breakdown
func (s *Scorer) Compute(scores map[model.AgentName]int) model.ReliabilityScore {
	fact := dimension(scores, model.AgentFactChecker)
	source := dimension(scores, model.AgentSourceAnalyst)
	omission := dimension(scores, model.AgentContextGuardian)
	freshness := dimension(scores, model.AgentFreshnessDetector)

	value := s.weights.FactWeight*float64(fact) +
		s.weights.SourceWeight*float64(source) +
		s.weights.ContextWeight*float64(100-omission) +
		s.weights.FreshnessWeight*float64(freshness)

	return model.ReliabilityScore{
		Value: model.ClampScore(int(math.Round(value))),
		Breakdown: map[model.AgentName]model.DimensionScore{
			model.AgentFactChecker:       {Weight: s.weights.FactWeight, Score: fact},
			model.AgentSourceAnalyst:     {Weight: s.weights.SourceWeight, Score: source},
			model.AgentContextGuardian:   {Weight: s.weights.ContextWeight, Score: omission},
			model.AgentFreshnessDetector: {Weight: s.weights.FreshnessWeight, Score: freshness},
		},
	}
}

// dimension resolves a dimension's aggregated score, defaulting to
// neutral when a dimension never produced a result
func dimension(scores map[model.AgentName]int, name model.AgentName) int {
	score, ok := scores[name]
	if !ok {
		return model.NeutralScore
	}
	return model.ClampScore(score)
}
