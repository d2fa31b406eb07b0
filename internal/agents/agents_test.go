package agents

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ottoverify/otto/internal/model"
)

// stubProvider returns a canned output or error and counts calls
type stubProvider struct {
	output string
	err    error
	calls  int32
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) IsAvailable(ctx context.Context) bool { return p.err == nil }

func (p *stubProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.output, p.err
}

const sampleText = "The dam was completed in 1936 and generates 4.5 billion kilowatt hours annually."

var sampleSources = []model.Source{
	{Title: "Dam history", URL: "https://example.gov/dam", Snippet: "completed in 1936", Credibility: model.CredibilityHigh},
}

func TestFactChecker_ParsesResponse(t *testing.T) {
	provider := &stubProvider{
		output: `{"score": 85, "verified_claims": ["completed in 1936"], "unverified_claims": ["4.5 billion kilowatt hours"], "summary": "Mostly supported."}`,
	}
	agent := NewFactChecker(provider)

	result := agent.Evaluate(context.Background(), sampleText, sampleSources)

	if result.Agent != model.AgentFactChecker {
		t.Errorf("Expected agent name %s, got %s", model.AgentFactChecker, result.Agent)
	}
	if result.Score != 85 {
		t.Errorf("Expected score 85, got %d", result.Score)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("Expected 2 findings, got %d", len(result.Findings))
	}
	if result.Findings[0].Type != model.FindingVerifiedClaim {
		t.Errorf("Expected verified_claim finding first, got %s", result.Findings[0].Type)
	}
	if result.Summary != "Mostly supported." {
		t.Errorf("Unexpected summary: %q", result.Summary)
	}
}

func TestEvaluators_NilProviderReturnsNeutral(t *testing.T) {
	evaluators := []Evaluator{
		NewFactChecker(nil),
		NewSourceAnalyst(nil),
		NewContextGuardian(nil),
		NewFreshnessDetector(nil),
	}

	for _, agent := range evaluators {
		result := agent.Evaluate(context.Background(), sampleText, sampleSources)

		if result.Score != model.NeutralScore {
			t.Errorf("%s: expected neutral score %d, got %d", agent.Name(), model.NeutralScore, result.Score)
		}
		if result.Summary != "Agent unavailable" {
			t.Errorf("%s: expected 'Agent unavailable' summary, got %q", agent.Name(), result.Summary)
		}
		if len(result.Findings) != 1 || result.Findings[0].Type != model.FindingUnavailable {
			t.Errorf("%s: expected single unavailable finding, got %+v", agent.Name(), result.Findings)
		}
	}
}

func TestEvaluators_ProviderErrorReturnsNeutral(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	agent := NewSourceAnalyst(provider)

	result := agent.Evaluate(context.Background(), sampleText, sampleSources)
	if result.Score != model.NeutralScore {
		t.Errorf("Expected neutral score, got %d", result.Score)
	}
	if result.Findings[0].Type != model.FindingUnavailable {
		t.Errorf("Expected unavailable finding, got %s", result.Findings[0].Type)
	}
}

func TestEvaluators_UnparsableOutputReturnsParseError(t *testing.T) {
	provider := &stubProvider{output: "I cannot produce JSON today."}
	agent := NewFreshnessDetector(provider)

	result := agent.Evaluate(context.Background(), sampleText, sampleSources)
	if result.Score != model.NeutralScore {
		t.Errorf("Expected neutral score, got %d", result.Score)
	}
	if result.Findings[0].Type != model.FindingParseError {
		t.Errorf("Expected parse_error finding, got %s", result.Findings[0].Type)
	}
}

func TestEvaluators_ScoreClampedAndDefaulted(t *testing.T) {
	overProvider := &stubProvider{output: `{"score": 250, "summary": "out of range"}`}
	result := NewFactChecker(overProvider).Evaluate(context.Background(), sampleText, nil)
	if result.Score != 100 {
		t.Errorf("Expected score clamped to 100, got %d", result.Score)
	}

	negProvider := &stubProvider{output: `{"score": -5, "summary": "negative"}`}
	result = NewFactChecker(negProvider).Evaluate(context.Background(), sampleText, nil)
	if result.Score != 0 {
		t.Errorf("Expected score clamped to 0, got %d", result.Score)
	}

	// Missing score field defaults to neutral
	missingProvider := &stubProvider{output: `{"summary": "no score given"}`}
	result = NewFactChecker(missingProvider).Evaluate(context.Background(), sampleText, nil)
	if result.Score != model.NeutralScore {
		t.Errorf("Expected neutral default for missing score, got %d", result.Score)
	}
}

func TestContextGuardian_ManipulationFlag(t *testing.T) {
	provider := &stubProvider{
		output: `{"score": 70, "missing_context": ["no date given"], "manipulation_detected": true, "summary": "Selective framing."}`,
	}
	agent := NewContextGuardian(provider)

	result := agent.Evaluate(context.Background(), sampleText, sampleSources)
	if !result.Manipulation {
		t.Error("Expected manipulation flag set")
	}
	if result.Score != 70 {
		t.Errorf("Expected omission severity 70 passed through uninverted, got %d", result.Score)
	}
}

func TestRunner_EvaluatesAllDimensions(t *testing.T) {
	provider := &stubProvider{output: `{"score": 60, "summary": "ok"}`}
	runner := NewRunner(provider)

	results := runner.EvaluateAll(context.Background(), sampleText, sampleSources)

	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}
	for _, name := range model.AgentOrder {
		result, ok := results[name]
		if !ok {
			t.Errorf("Missing result for %s", name)
			continue
		}
		if result.Score != 60 {
			t.Errorf("%s: expected score 60, got %d", name, result.Score)
		}
	}
	if atomic.LoadInt32(&provider.calls) != 4 {
		t.Errorf("Expected 4 provider calls, got %d", provider.calls)
	}
}
