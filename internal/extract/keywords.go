package extract

import (
	"regexp"
	"strings"
)

const maxKeywords = 8

// KeywordExtractor condenses normalized text into a small ranked set of
// search keywords. Pattern-class priority: proper nouns > years >
// quantities > long generic words.
type KeywordExtractor struct {
	properRe   *regexp.Regexp
	yearRe     *regexp.Regexp
	quantityRe *regexp.Regexp
	wordRe     *regexp.Regexp
	stopwords  map[string]bool
}

// NewKeywordExtractor creates a keyword extractor with the built-in patterns
func NewKeywordExtractor() *KeywordExtractor {
	stop := map[string]bool{}
	for _, w := range []string{
		"the", "and", "that", "this", "with", "from", "have", "been",
		"their", "which", "about", "there", "these", "those", "would",
		"could", "should", "because", "between", "during", "through",
		"according", "however", "therefore", "although", "without",
	} {
		stop[w] = true
	}

	return &KeywordExtractor{
		properRe:   regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`),
		yearRe:     regexp.MustCompile(`\b(?:1[0-9]{3}|20[0-9]{2})\b`),
		quantityRe: regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s?(?:%|percent|million|billion|km|kg|tons?)\b`),
		wordRe:     regexp.MustCompile(`\b[a-z]{7,}\b`),
		stopwords:  stop,
	}
}

// Extract returns up to 8 deduplicated keywords in priority order
func (e *KeywordExtractor) Extract(text string) []string {
	var keywords []string
	seen := make(map[string]bool)

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || len(keywords) >= maxKeywords {
			return
		}
		key := strings.ToLower(candidate)
		if seen[key] || e.stopwords[key] {
			return
		}
		seen[key] = true
		keywords = append(keywords, candidate)
	}

	// 1. Proper nouns, skipping sentence-leading single words that are
	// more likely capitalization than names
	for _, match := range e.properRe.FindAllString(text, -1) {
		if strings.Contains(match, " ") || !isSentenceStart(text, match) {
			add(match)
		}
	}

	// 2. Years
	for _, match := range e.yearRe.FindAllString(text, -1) {
		add(match)
	}

	// 3. Quantities with units
	for _, match := range e.quantityRe.FindAllString(text, -1) {
		add(match)
	}

	// 4. Long generic words
	for _, match := range e.wordRe.FindAllString(strings.ToLower(text), -1) {
		add(match)
	}

	return keywords
}

// isSentenceStart reports whether the first occurrence of word in text
// sits at the start of the text or right after a sentence terminator
func isSentenceStart(text, word string) bool {
	idx := strings.Index(text, word)
	if idx <= 0 {
		return true
	}
	prefix := strings.TrimRight(text[:idx], " \n")
	if prefix == "" {
		return true
	}
	last := prefix[len(prefix)-1]
	return last == '.' || last == '!' || last == '?'
}
