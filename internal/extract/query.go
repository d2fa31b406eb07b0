package extract

import (
	"strings"

	"github.com/ottoverify/otto/internal/model"
)

const (
	maxQueries       = 5
	maxClaimQueries  = 4
	maxClaimQueryLen = 120
	maxExcerptLen    = 160
	minQueryInput    = 20
)

// QueryBuilder turns claims and keywords into a small deduplicated set of
// search queries. Output is non-empty whenever the input text has at
// least 20 characters.
type QueryBuilder struct{}

// NewQueryBuilder creates a query builder
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Build combines up to 4 truncated claim texts, the top keywords, and a
// short excerpt of the original text into at most 5 queries.
func (b *QueryBuilder) Build(claims []model.Claim, keywords []string, text string) []string {
	var queries []string
	seen := make(map[string]bool)

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || len(queries) >= maxQueries {
			return
		}
		key := strings.ToLower(q)
		if seen[key] {
			return
		}
		seen[key] = true
		queries = append(queries, q)
	}

	for i, claim := range claims {
		if i >= maxClaimQueries {
			break
		}
		add(truncate(claim.Text, maxClaimQueryLen))
	}

	if len(keywords) > 0 {
		n := len(keywords)
		if n > 6 {
			n = 6
		}
		add(strings.Join(keywords[:n], " "))
	}

	// A raw excerpt guarantees at least one query for claim-free text
	text = strings.TrimSpace(text)
	if len(text) >= minQueryInput {
		excerpt := strings.Join(strings.Fields(truncate(text, maxExcerptLen)), " ")
		add(excerpt)
	}

	return queries
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
