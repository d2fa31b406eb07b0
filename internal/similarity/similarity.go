package similarity

import (
	"math"
	"regexp"
	"strings"
)

// Strategy scores how related two pieces of text are, in [0,1]. It is a
// capability injected at construction time; the implementation is chosen
// by configuration, never probed for at runtime.
type Strategy interface {
	Name() string
	Score(a, b string) float64
}

// New returns the strategy for the given name. Unknown names fall back
// to the cosine implementation.
func New(name string) Strategy {
	switch strings.ToLower(name) {
	case "jaccard":
		return &Jaccard{}
	default:
		return &Cosine{}
	}
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(s string) []string {
	return tokenRe.FindAllString(strings.ToLower(s), -1)
}

func termFrequencies(tokens []string) map[string]float64 {
	freq := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}
	return freq
}

// Cosine scores texts by the cosine of their term-frequency vectors
type Cosine struct{}

func (c *Cosine) Name() string { return "cosine" }

func (c *Cosine) Score(a, b string) float64 {
	fa := termFrequencies(tokenize(a))
	fb := termFrequencies(tokenize(b))
	if len(fa) == 0 || len(fb) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, count := range fa {
		normA += count * count
		if other, ok := fb[term]; ok {
			dot += count * other
		}
	}
	for _, count := range fb {
		normB += count * count
	}

	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard is the pure-function fallback: token set intersection over union
type Jaccard struct{}

func (j *Jaccard) Name() string { return "jaccard" }

func (j *Jaccard) Score(a, b string) float64 {
	setA := make(map[string]bool)
	for _, tok := range tokenize(a) {
		setA[tok] = true
	}
	setB := make(map[string]bool)
	for _, tok := range tokenize(b) {
		setB[tok] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
