package agents

import (
	"context"
	"fmt"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
)

// ContextGuardian flags omitted temporal, geographic and factual
// context. Its score is an omission severity: HIGHER means MORE missing
// context. The global scorer inverts it; the inversion lives there, not
// here.
type ContextGuardian struct {
	provider llm.Provider
}

// NewContextGuardian creates a context guardian backed by the given provider
func NewContextGuardian(provider llm.Provider) *ContextGuardian {
	return &ContextGuardian{provider: provider}
}

func (a *ContextGuardian) Name() model.AgentName {
	return model.AgentContextGuardian
}

const contextGuardianSystem = `You detect missing context in texts: omitted dates, places, qualifiers and counter-evidence that change how a reader understands the claims. Respond with a single JSON object and nothing else.`

type contextGuardianResponse struct {
	Score                *int     `json:"score"`
	MissingContext       []string `json:"missing_context"`
	ManipulationDetected bool     `json:"manipulation_detected"`
	Summary              string   `json:"summary"`
}

func (a *ContextGuardian) Evaluate(ctx context.Context, text string, sources []model.Source) model.AgentResult {
	user := fmt.Sprintf(`Identify context missing from the text below, using the sources as reference.

TEXT:
%s

SOURCES:
%s

Return JSON: {"score": <0-100 where 100 means severe context omissions and 0 means nothing missing>, "missing_context": [...], "manipulation_detected": <true if omissions appear deliberate>, "summary": "<2 sentences>"}`,
		promptText(text), sourcesBlock(sources))

	var resp contextGuardianResponse
	if reason, ok := generate(ctx, a.provider, contextGuardianSystem, user, &resp); !ok {
		return model.NeutralResult(a.Name(), reason, "context guardian collaborator unusable")
	}

	findings := appendFindings(nil, model.FindingMissingContext, resp.MissingContext)

	summary := resp.Summary
	if summary == "" {
		summary = "Context review completed"
	}

	return model.AgentResult{
		Agent:        a.Name(),
		Score:        scoreOrNeutral(resp.Score),
		Findings:     findings,
		Summary:      summary,
		Manipulation: resp.ManipulationDetected,
	}
}
