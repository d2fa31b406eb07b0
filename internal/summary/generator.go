package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
	"go.uber.org/zap"
)

const maxSummaryTokens = 400

// localeText holds the fixed strings for one supported locale. Locales
// come from this table, never from the text-generation collaborator.
type localeText struct {
	Prefix       string
	ScoreLine    string
	SegmentLabel string
	NoFindings   string
}

var locales = map[string]localeText{
	"en": {
		Prefix:       "Otto Summary:",
		ScoreLine:    "Overall reliability %d/100.",
		SegmentLabel: "Segment %d",
		NoFindings:   "No notable findings.",
	},
	"fr": {
		Prefix:       "Synthèse Otto :",
		ScoreLine:    "Fiabilité globale %d/100.",
		SegmentLabel: "Segment %d",
		NoFindings:   "Aucun constat notable.",
	},
}

// Generator produces the localized natural-language synthesis of a
// verification run. With a working text-generation collaborator it asks
// for a digest; otherwise it falls back to concatenating the per-segment
// agent summaries in order.
type Generator struct {
	provider llm.Provider
	maxChars int
	logger   *zap.Logger
}

// NewGenerator creates a generator. A nil provider is valid and forces
// the deterministic fallback path.
func NewGenerator(provider llm.Provider, cfg model.SummaryConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = 1200
	}
	return &Generator{
		provider: provider,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Generate builds the meta-summary for the given locale. The result
// always starts with the locale's fixed prefix and never exceeds the
// configured length.
func (g *Generator) Generate(ctx context.Context, locale string, segments []model.Segment, score model.ReliabilityScore) string {
	text := resolveLocale(locale)

	if g.provider != nil {
		if out := g.fromProvider(ctx, locale, text, segments, score); out != "" {
			return g.finish(text, out)
		}
	}
	return g.finish(text, g.fallback(text, segments, score))
}

func (g *Generator) fromProvider(ctx context.Context, locale string, text localeText, segments []model.Segment, score model.ReliabilityScore) string {
	language := "English"
	if strings.HasPrefix(normalizeLocale(locale), "fr") {
		language = "French"
	}

	system := fmt.Sprintf(
		"You are Otto, a text reliability analyst. Write a concise synthesis in %s, "+
			"at most %d characters, starting with the exact prefix %q. "+
			"Plain prose, no markdown, no lists.", language, g.maxChars, text.Prefix)

	output, err := g.provider.Generate(ctx, system, g.digest(text, segments, score), maxSummaryTokens)
	if err != nil {
		g.logger.Debug("summary generation failed, using fallback", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(output)
}

// digest renders a compact per-segment view of scores and agent
// summaries for the synthesis prompt
func (g *Generator) digest(text localeText, segments []model.Segment, score model.ReliabilityScore) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall reliability score: %d/100\n", score.Value)
	for _, dim := range model.AgentOrder {
		if d, ok := score.Breakdown[dim]; ok {
			fmt.Fprintf(&sb, "%s: %d\n", dim, d.Score)
		}
	}
	for _, seg := range segments {
		fmt.Fprintf(&sb, "\n%s:\n", fmt.Sprintf(text.SegmentLabel, seg.Index+1))
		for _, dim := range model.AgentOrder {
			result, ok := seg.Results[dim]
			if !ok {
				continue
			}
			line := strings.TrimSpace(result.Summary)
			if line == "" {
				continue
			}
			fmt.Fprintf(&sb, "- %s (%d): %s\n", dim, result.Score, line)
		}
	}
	return sb.String()
}

// fallback concatenates every segment's agent summaries in segment
// order. Deterministic, no collaborator involved.
func (g *Generator) fallback(text localeText, segments []model.Segment, score model.ReliabilityScore) string {
	var parts []string
	for _, seg := range segments {
		for _, dim := range model.AgentOrder {
			result, ok := seg.Results[dim]
			if !ok {
				continue
			}
			line := strings.TrimSpace(result.Summary)
			if line == "" {
				continue
			}
			parts = append(parts, line)
		}
	}

	body := fmt.Sprintf(text.ScoreLine, score.Value)
	if len(parts) == 0 {
		return body + " " + text.NoFindings
	}
	return body + " " + strings.Join(parts, " ")
}

// finish enforces the prefix and the length cap
func (g *Generator) finish(text localeText, body string) string {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, text.Prefix) {
		body = text.Prefix + " " + body
	}

	runes := []rune(body)
	if len(runes) > g.maxChars {
		body = strings.TrimSpace(string(runes[:g.maxChars]))
	}
	return body
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.TrimSpace(locale))
}

// resolveLocale maps a locale tag onto the table, falling back to
// English for anything unsupported
func resolveLocale(locale string) localeText {
	tag := normalizeLocale(locale)
	if text, ok := locales[tag]; ok {
		return text
	}
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		if text, ok := locales[tag[:i]]; ok {
			return text
		}
	}
	return locales["en"]
}
