package search

import (
	"sort"

	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/similarity"
)

// Enricher fills in the derived fields of retrieved sources: domain,
// credibility tier and relevance to the input text. Sources are never
// mutated after enrichment, only filtered and ranked.
type Enricher struct {
	classifier *CredibilityClassifier
	sim        similarity.Strategy
}

// NewEnricher creates an enricher with the given similarity strategy
func NewEnricher(classifier *CredibilityClassifier, sim similarity.Strategy) *Enricher {
	return &Enricher{
		classifier: classifier,
		sim:        sim,
	}
}

// Enrich returns the sources with derived fields set, sorted by
// descending relevance. The input slice is not modified.
func (e *Enricher) Enrich(sources []model.Source, originalText string) []model.Source {
	enriched := make([]model.Source, len(sources))
	for i, src := range sources {
		src.Domain = Domain(src.URL)
		src.Credibility = e.classifier.Classify(src.URL)
		src.Relevance = e.sim.Score(src.Title+" "+src.Snippet, originalText)
		enriched[i] = src
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].Relevance > enriched[j].Relevance
	})
	return enriched
}
