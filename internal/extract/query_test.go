package extract

import (
	"strings"
	"testing"

	"github.com/ottoverify/otto/internal/model"
)

func TestQueryBuilder_CombinesClaimsAndKeywords(t *testing.T) {
	builder := NewQueryBuilder()

	claims := []model.Claim{
		{Type: model.ClaimDate, Text: "The bridge opened in 1937.", Verifiable: true},
		{Type: model.ClaimQuantitative, Text: "It spans 2.7 kilometers of open water.", Verifiable: true},
	}
	keywords := []string{"Golden Gate", "1937", "suspension"}
	text := "The bridge opened in 1937. It spans 2.7 kilometers of open water."

	queries := builder.Build(claims, keywords, text)

	if len(queries) == 0 || len(queries) > maxQueries {
		t.Fatalf("Expected between 1 and %d queries, got %d", maxQueries, len(queries))
	}

	foundKeywordQuery := false
	for _, q := range queries {
		if strings.Contains(q, "Golden Gate") {
			foundKeywordQuery = true
		}
	}
	if !foundKeywordQuery {
		t.Errorf("Expected a keyword query, got %v", queries)
	}
}

func TestQueryBuilder_TruncatesLongClaims(t *testing.T) {
	builder := NewQueryBuilder()

	long := strings.Repeat("x", 400)
	claims := []model.Claim{{Type: model.ClaimScientific, Text: long, Verifiable: true}}

	queries := builder.Build(claims, nil, long)

	for _, q := range queries {
		if len([]rune(q)) > maxExcerptLen {
			t.Errorf("Expected query capped at %d runes, got %d", maxExcerptLen, len([]rune(q)))
		}
	}
}

func TestQueryBuilder_NonEmptyForMinimalInput(t *testing.T) {
	builder := NewQueryBuilder()

	text := "Twenty characters....."
	queries := builder.Build(nil, nil, text)

	if len(queries) == 0 {
		t.Errorf("Expected at least one query for %d-char input", len(text))
	}
}

func TestQueryBuilder_Dedup(t *testing.T) {
	builder := NewQueryBuilder()

	claims := []model.Claim{
		{Type: model.ClaimDate, Text: "The treaty was signed in 1648.", Verifiable: true},
		{Type: model.ClaimHistorical, Text: "The treaty was signed in 1648.", Verifiable: true},
	}

	queries := builder.Build(claims, nil, "The treaty was signed in 1648.")

	seen := make(map[string]bool)
	for _, q := range queries {
		key := strings.ToLower(q)
		if seen[key] {
			t.Errorf("Duplicate query %q in %v", q, queries)
		}
		seen[key] = true
	}
}
