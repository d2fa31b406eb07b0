package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Normalizer strips control characters and unsafe markup from raw input
// and truncates it to a fixed character budget. It is a pure function
// holder: Clean has no side effects and is safe for concurrent use.
type Normalizer struct {
	maxChars int
}

// New creates a normalizer with the given truncation budget
func New(maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = 10000
	}
	return &Normalizer{maxChars: maxChars}
}

// Clean returns the normalized form of raw: markup stripped, control
// characters removed, space runs collapsed, length capped at the budget.
// Newlines survive so paragraph boundaries remain visible to the segmenter.
func (n *Normalizer) Clean(raw string) string {
	text := raw
	if looksLikeMarkup(text) {
		text = stripMarkup(text)
	}
	text = stripControl(text)
	text = collapseSpaces(text)
	return truncateRunes(text, n.maxChars)
}

// looksLikeMarkup detects HTML-ish input worth running through the parser
func looksLikeMarkup(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range []string{"<html", "<body", "<p>", "<p ", "<div", "<script", "<br", "<span", "<a "} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// stripMarkup extracts visible text, skipping scripts/styles. Block
// elements become paragraph breaks so structure survives for segmentation.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Parser failure falls back to dropping angle-bracket runs
		return stripTagsNaive(s)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "noscript", "iframe", "object", "embed":
				return
			}
		}

		if node.Type == html.TextNode {
			text := strings.TrimSpace(node.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if node.Type == html.ElementNode {
			switch node.Data {
			case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
				buf.WriteString("\n\n")
			}
		}
	}

	walk(doc)
	return buf.String()
}

func stripTagsNaive(s string) string {
	var buf strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			buf.WriteRune(' ')
		case !inTag:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// stripControl removes non-printable control characters, keeping newlines
// and converting tabs to spaces
func stripControl(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			buf.WriteRune('\n')
		case r == '\t':
			buf.WriteRune(' ')
		case r == '\r':
			// CRLF folds into the following LF; bare CR becomes LF
		case unicode.IsControl(r):
		case r == unicode.ReplacementChar:
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// collapseSpaces collapses runs of spaces within lines and trims each line,
// preserving blank lines as paragraph boundaries
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	out := strings.Join(lines, "\n")

	// Cap consecutive blank lines at one (two newlines)
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

// truncateRunes caps the string at max runes without splitting a rune
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
