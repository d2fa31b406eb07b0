package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ottoverify/otto/internal/model"
)

// Per-type caps on extracted claims
const (
	maxQuantitativeClaims = 5
	maxDateClaims         = 3
	maxVocabClaims        = 3
)

// Sentence length bounds; fragments and run-ons are not useful claims
const (
	minSentenceLen = 20
	maxSentenceLen = 300
)

// ClaimExtractor scans normalized text with a fixed battery of pattern
// classes and returns typed, capped claims. Deterministic: same input
// always yields the same ordered output.
type ClaimExtractor struct {
	quantityRe *regexp.Regexp
	yearRe     *regexp.Regexp
	properRe   *regexp.Regexp
	vocab      []vocabClass
}

type vocabClass struct {
	claimType model.ClaimType
	terms     []string
}

// NewClaimExtractor creates a claim extractor with the built-in patterns
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		quantityRe: regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s?(?:%|percent|km|kilometer|kilometre|mile|meter|metre|kg|kilogram|ton|tonne|million|billion|trillion|thousand|degree|°c|°f|people|inhabitants|dollar|euro|usd|eur)s?\b`),
		yearRe:     regexp.MustCompile(`\b(?:1[0-9]{3}|20[0-9]{2})\b`),
		properRe:   regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`),
		vocab: []vocabClass{
			{model.ClaimScientific, []string{
				"study", "studies", "research", "researchers", "scientists",
				"experiment", "clinical", "vaccine", "molecule", "dna",
				"species", "climate", "temperature record", "peer-reviewed",
			}},
			{model.ClaimHistorical, []string{
				"war", "battle", "empire", "revolution", "treaty", "dynasty",
				"century", "founded", "established", "historical", "ancient",
				"medieval", "independence",
			}},
			{model.ClaimGeographic, []string{
				"capital", "border", "river", "mountain", "ocean", "continent",
				"region", "province", "peninsula", "island", "located in",
				"north of", "south of",
			}},
		},
	}
}

// Extract returns the typed claims found in text, capped per type,
// in order of appearance within each type.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	sentences := SplitSentences(text)

	var quantitative, date, historical, geographic, scientific []model.Claim

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		if e.quantityRe.MatchString(sentence) && len(quantitative) < maxQuantitativeClaims {
			quantitative = append(quantitative, model.Claim{
				Type:       model.ClaimQuantitative,
				Text:       sentence,
				Verifiable: true,
			})
		}

		if e.yearRe.MatchString(sentence) && len(date) < maxDateClaims {
			date = append(date, model.Claim{
				Type:       model.ClaimDate,
				Text:       sentence,
				Verifiable: true,
			})
		}

		for _, class := range e.vocab {
			if !matchesVocab(lower, class.terms) {
				continue
			}
			claim := model.Claim{Type: class.claimType, Text: sentence, Verifiable: true}
			switch class.claimType {
			case model.ClaimHistorical:
				if len(historical) < maxVocabClaims {
					historical = append(historical, claim)
				}
			case model.ClaimGeographic:
				if len(geographic) < maxVocabClaims {
					geographic = append(geographic, claim)
				}
			case model.ClaimScientific:
				if len(scientific) < maxVocabClaims {
					scientific = append(scientific, claim)
				}
			}
		}
	}

	var claims []model.Claim
	claims = append(claims, quantitative...)
	claims = append(claims, date...)
	claims = append(claims, historical...)
	claims = append(claims, geographic...)
	claims = append(claims, scientific...)
	return dedupeClaims(claims)
}

// matchesVocab reports whether any term occurs as whole words in the
// sentence. A term inside a longer word ("war" in "afterwards") does
// not count.
func matchesVocab(lower string, terms []string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	joined := " " + strings.Join(words, " ") + " "

	for _, term := range terms {
		if strings.Contains(joined, " "+term+" ") {
			return true
		}
	}
	return false
}

// SplitSentences splits text into sentences with a simple terminator
// heuristic, keeping only sentences within the useful length bounds.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations and decimals
			if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\t' {
				continue
			}
			sentence := strings.TrimSpace(current.String())
			if len(sentence) >= minSentenceLen && len(sentence) <= maxSentenceLen {
				sentences = append(sentences, sentence)
			}
			current.Reset()
		}
	}

	if current.Len() > 0 {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= minSentenceLen && len(sentence) <= maxSentenceLen {
			sentences = append(sentences, sentence)
		}
	}

	return sentences
}

// dedupeClaims removes duplicate claim texts, keeping first occurrence
func dedupeClaims(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool)
	var unique []model.Claim

	for _, claim := range claims {
		key := strings.ToLower(strings.TrimSpace(claim.Text))
		if !seen[key] {
			seen[key] = true
			unique = append(unique, claim)
		}
	}

	return unique
}
