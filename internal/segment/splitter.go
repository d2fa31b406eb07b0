package segment

import (
	"strings"
	"unicode/utf8"
)

// Split packs text into paragraph-respecting chunks of at most maxChunk
// characters, counted in runes. A paragraph longer than maxChunk is
// hard-sliced. Chunks are ordered and their concatenation (modulo
// whitespace normalization) reconstructs the input.
func Split(text string, maxChunk int) []string {
	if maxChunk <= 0 {
		maxChunk = 6000
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if currentRunes > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentRunes = 0
		}
	}

	for _, para := range paragraphs {
		if para == "" {
			continue
		}

		paraRunes := utf8.RuneCountInString(para)
		if paraRunes > maxChunk {
			flush()
			for _, slice := range hardSlice(para, maxChunk) {
				chunks = append(chunks, slice)
			}
			continue
		}

		// +2 accounts for the paragraph separator
		if currentRunes > 0 && currentRunes+paraRunes+2 > maxChunk {
			flush()
		}
		if currentRunes > 0 {
			current.WriteString("\n\n")
			currentRunes += 2
		}
		current.WriteString(para)
		currentRunes += paraRunes
	}
	flush()

	return chunks
}

// hardSlice cuts an oversized paragraph at rune boundaries
func hardSlice(para string, maxChunk int) []string {
	var slices []string
	runes := []rune(para)
	for start := 0; start < len(runes); start += maxChunk {
		end := start + maxChunk
		if end > len(runes) {
			end = len(runes)
		}
		slices = append(slices, string(runes[start:end]))
	}
	return slices
}
