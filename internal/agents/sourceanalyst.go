package agents

import (
	"context"
	"fmt"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
)

// SourceAnalyst judges whether each retrieved source is real and
// credible or fabricated/unreliable. Score reflects the quality of the
// source pool as evidence.
type SourceAnalyst struct {
	provider llm.Provider
}

// NewSourceAnalyst creates a source analyst backed by the given provider
func NewSourceAnalyst(provider llm.Provider) *SourceAnalyst {
	return &SourceAnalyst{provider: provider}
}

func (a *SourceAnalyst) Name() model.AgentName {
	return model.AgentSourceAnalyst
}

const sourceAnalystSystem = `You are a source credibility analyst. You judge whether references are genuine, reachable and reputable. Respond with a single JSON object and nothing else.`

type sourceAnalystResponse struct {
	Score             *int     `json:"score"`
	CredibleSources   []string `json:"credible_sources"`
	SuspiciousSources []string `json:"suspicious_sources"`
	Summary           string   `json:"summary"`
}

func (a *SourceAnalyst) Evaluate(ctx context.Context, text string, sources []model.Source) model.AgentResult {
	user := fmt.Sprintf(`Assess the credibility of the sources retrieved for the text below.

TEXT:
%s

SOURCES:
%s

Return JSON: {"score": <0-100, overall quality of the source pool>, "credible_sources": [<urls>], "suspicious_sources": [<urls>], "summary": "<2 sentences>"}`,
		promptText(text), sourcesBlock(sources))

	var resp sourceAnalystResponse
	if reason, ok := generate(ctx, a.provider, sourceAnalystSystem, user, &resp); !ok {
		return model.NeutralResult(a.Name(), reason, "source analyst collaborator unusable")
	}

	var findings []model.Finding
	findings = appendFindings(findings, model.FindingCredibleSource, resp.CredibleSources)
	findings = appendFindings(findings, model.FindingSuspiciousSource, resp.SuspiciousSources)

	summary := resp.Summary
	if summary == "" {
		summary = "Source analysis completed"
	}

	return model.AgentResult{
		Agent:    a.Name(),
		Score:    scoreOrNeutral(resp.Score),
		Findings: findings,
		Summary:  summary,
	}
}
