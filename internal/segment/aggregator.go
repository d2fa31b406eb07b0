package segment

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/ottoverify/otto/internal/agents"
	"github.com/ottoverify/otto/internal/model"
)

// Aggregator splits long documents, runs the agent set per chunk and
// combines the per-segment results length-weighted. Chunks are
// processed sequentially to bound concurrent load on the
// text-generation collaborator; agents within a chunk run concurrently.
type Aggregator struct {
	runner    *agents.Runner
	threshold int
	maxChunk  int
}

// NewAggregator creates an aggregator over the given runner
func NewAggregator(runner *agents.Runner, threshold, maxChunk int) *Aggregator {
	if threshold <= 0 {
		threshold = 8000
	}
	if maxChunk <= 0 {
		maxChunk = 6000
	}
	return &Aggregator{
		runner:    runner,
		threshold: threshold,
		maxChunk:  maxChunk,
	}
}

// ShouldSegment reports whether the input goes through chunking.
// File inputs always do; inline text only past the threshold, measured
// in runes so multi-byte text is not segmented early.
func (a *Aggregator) ShouldSegment(text string, fromFile bool) bool {
	return fromFile || utf8.RuneCountInString(text) > a.threshold
}

// Process evaluates the text, segmented or whole, and returns the
// ordered segments plus their aggregated result
func (a *Aggregator) Process(ctx context.Context, text string, sources []model.Source, fromFile bool) ([]model.Segment, model.AggregatedResult) {
	var texts []string
	if a.ShouldSegment(text, fromFile) {
		texts = Split(text, a.maxChunk)
	}
	if len(texts) == 0 {
		// Empty split or short input: evaluate the whole text once
		texts = []string{text}
	}

	segments := make([]model.Segment, 0, len(texts))
	for i, chunk := range texts {
		results := a.runner.EvaluateAll(ctx, chunk, sources)
		segments = append(segments, model.Segment{
			Index:   i,
			Text:    chunk,
			Results: results,
		})
	}

	return segments, Aggregate(segments)
}

// Aggregate combines per-segment agent results into one result per
// dimension. Scores are weighted by segment character length; findings
// are concatenated with their segment index; manipulation flags are
// OR-combined. Pure function of the completed results, so the outcome
// is independent of evaluation scheduling order.
func Aggregate(segments []model.Segment) model.AggregatedResult {
	agg := model.AggregatedResult{
		Scores:   make(map[model.AgentName]int),
		Segments: len(segments),
	}
	if len(segments) == 0 {
		return agg
	}

	weights := make([]int, len(segments))
	totalWeight := 0
	for i, seg := range segments {
		weights[i] = utf8.RuneCountInString(seg.Text)
		totalWeight += weights[i]
	}
	agg.TotalChars = totalWeight

	for _, name := range model.AgentOrder {
		var weightedSum float64
		for i, seg := range segments {
			result, ok := seg.Results[name]
			if !ok {
				continue
			}
			weightedSum += float64(model.ClampScore(result.Score)) * float64(weights[i])
		}

		if totalWeight == 0 {
			// Degenerate all-empty segments; fall back to a plain mean
			var sum int
			for _, seg := range segments {
				sum += model.ClampScore(seg.Results[name].Score)
			}
			agg.Scores[name] = sum / len(segments)
			continue
		}
		agg.Scores[name] = int(math.Round(weightedSum / float64(totalWeight)))
	}

	for _, seg := range segments {
		for _, name := range model.AgentOrder {
			result, ok := seg.Results[name]
			if !ok {
				continue
			}
			for _, finding := range result.Findings {
				finding.SegmentIndex = seg.Index
				agg.Findings = append(agg.Findings, finding)
			}
			if result.Manipulation {
				agg.Manipulation = true
			}
		}
	}

	return agg
}
