package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ottoverify/otto/internal/model"
)

// scriptedProvider returns a fixed output or error
type scriptedProvider struct {
	output string
	err    error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, system, user string, maxTokens int) (string, error) {
	return p.output, p.err
}

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func segmentWithSummaries(index int, summaries map[model.AgentName]string) model.Segment {
	results := make(map[model.AgentName]model.AgentResult)
	for name, s := range summaries {
		results[name] = model.AgentResult{Agent: name, Score: 60, Summary: s}
	}
	return model.Segment{Index: index, Text: "segment text", Results: results}
}

func TestGenerate_FallbackEnglishPrefix(t *testing.T) {
	gen := NewGenerator(nil, model.SummaryConfig{Locale: "en", MaxChars: 1200}, nil)

	segments := []model.Segment{
		segmentWithSummaries(0, map[model.AgentName]string{
			model.AgentFactChecker: "Two claims verified.",
		}),
	}
	out := gen.Generate(context.Background(), "en", segments, model.ReliabilityScore{Value: 72})

	if !strings.HasPrefix(out, "Otto Summary:") {
		t.Errorf("Expected English prefix, got %q", out)
	}
	if !strings.Contains(out, "Two claims verified.") {
		t.Errorf("Expected fallback to carry agent summary, got %q", out)
	}
}

func TestGenerate_FallbackFrenchPrefix(t *testing.T) {
	gen := NewGenerator(nil, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "fr", nil, model.ReliabilityScore{Value: 50})
	if !strings.HasPrefix(out, "Synthèse Otto :") {
		t.Errorf("Expected French prefix, got %q", out)
	}
}

func TestGenerate_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	gen := NewGenerator(nil, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "de-DE", nil, model.ReliabilityScore{Value: 50})
	if !strings.HasPrefix(out, "Otto Summary:") {
		t.Errorf("Expected English fallback for unsupported locale, got %q", out)
	}
}

func TestGenerate_RegionalVariantMatchesBase(t *testing.T) {
	gen := NewGenerator(nil, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "fr-CA", nil, model.ReliabilityScore{Value: 50})
	if !strings.HasPrefix(out, "Synthèse Otto :") {
		t.Errorf("Expected fr-CA to resolve to French, got %q", out)
	}
}

func TestGenerate_ProviderOutputKept(t *testing.T) {
	provider := &scriptedProvider{output: "Otto Summary: the text is broadly reliable."}
	gen := NewGenerator(provider, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "en", nil, model.ReliabilityScore{Value: 80})
	if out != "Otto Summary: the text is broadly reliable." {
		t.Errorf("Expected provider output verbatim, got %q", out)
	}
}

func TestGenerate_ProviderOutputGetsPrefix(t *testing.T) {
	provider := &scriptedProvider{output: "The text is broadly reliable."}
	gen := NewGenerator(provider, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "en", nil, model.ReliabilityScore{Value: 80})
	if !strings.HasPrefix(out, "Otto Summary:") {
		t.Errorf("Expected prefix enforced on provider output, got %q", out)
	}
}

func TestGenerate_EmptyProviderOutputFallsBack(t *testing.T) {
	provider := &scriptedProvider{output: "   "}
	gen := NewGenerator(provider, model.SummaryConfig{MaxChars: 1200}, nil)

	segments := []model.Segment{
		segmentWithSummaries(0, map[model.AgentName]string{
			model.AgentSourceAnalyst: "Sources look credible.",
		}),
	}
	out := gen.Generate(context.Background(), "en", segments, model.ReliabilityScore{Value: 65})
	if !strings.Contains(out, "Sources look credible.") {
		t.Errorf("Expected deterministic fallback on empty output, got %q", out)
	}
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("provider down")}
	gen := NewGenerator(provider, model.SummaryConfig{MaxChars: 1200}, nil)

	out := gen.Generate(context.Background(), "en", nil, model.ReliabilityScore{Value: 40})
	if !strings.HasPrefix(out, "Otto Summary:") {
		t.Errorf("Expected fallback summary on provider error, got %q", out)
	}
}

func TestGenerate_LengthCap(t *testing.T) {
	provider := &scriptedProvider{output: "Otto Summary: " + strings.Repeat("very long analysis ", 100)}
	gen := NewGenerator(provider, model.SummaryConfig{MaxChars: 200}, nil)

	out := gen.Generate(context.Background(), "en", nil, model.ReliabilityScore{Value: 70})
	if len([]rune(out)) > 200 {
		t.Errorf("Expected summary capped at 200 chars, got %d", len([]rune(out)))
	}
}

func TestGenerate_FallbackSegmentOrder(t *testing.T) {
	gen := NewGenerator(nil, model.SummaryConfig{MaxChars: 2000}, nil)

	segments := []model.Segment{
		segmentWithSummaries(0, map[model.AgentName]string{model.AgentFactChecker: "First segment claims hold."}),
		segmentWithSummaries(1, map[model.AgentName]string{model.AgentFactChecker: "Second segment is thin."}),
	}
	out := gen.Generate(context.Background(), "en", segments, model.ReliabilityScore{Value: 60})

	first := strings.Index(out, "First segment claims hold.")
	second := strings.Index(out, "Second segment is thin.")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Expected segment summaries concatenated in order, got %q", out)
	}
}
