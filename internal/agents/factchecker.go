package agents

import (
	"context"
	"fmt"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
)

// FactChecker classifies claims as verified or unverified against the
// retrieved sources. Score reflects overall support: 100 means every
// checkable claim is corroborated.
type FactChecker struct {
	provider llm.Provider
}

// NewFactChecker creates a fact-checker backed by the given provider
func NewFactChecker(provider llm.Provider) *FactChecker {
	return &FactChecker{provider: provider}
}

func (a *FactChecker) Name() model.AgentName {
	return model.AgentFactChecker
}

const factCheckerSystem = `You are a meticulous fact-checking assistant. You compare claims in a text against the provided sources and never invent evidence. Respond with a single JSON object and nothing else.`

type factCheckerResponse struct {
	Score            *int     `json:"score"`
	VerifiedClaims   []string `json:"verified_claims"`
	UnverifiedClaims []string `json:"unverified_claims"`
	Summary          string   `json:"summary"`
}

func (a *FactChecker) Evaluate(ctx context.Context, text string, sources []model.Source) model.AgentResult {
	user := fmt.Sprintf(`Analyze the factual claims in the text below against the sources.

TEXT:
%s

SOURCES:
%s

Return JSON: {"score": <0-100, overall support of the claims by the sources>, "verified_claims": [...], "unverified_claims": [...], "summary": "<2 sentences>"}`,
		promptText(text), sourcesBlock(sources))

	var resp factCheckerResponse
	if reason, ok := generate(ctx, a.provider, factCheckerSystem, user, &resp); !ok {
		return model.NeutralResult(a.Name(), reason, "fact checker collaborator unusable")
	}

	var findings []model.Finding
	findings = appendFindings(findings, model.FindingVerifiedClaim, resp.VerifiedClaims)
	findings = appendFindings(findings, model.FindingUnverifiedClaim, resp.UnverifiedClaims)

	summary := resp.Summary
	if summary == "" {
		summary = "Fact check completed"
	}

	return model.AgentResult{
		Agent:    a.Name(),
		Score:    scoreOrNeutral(resp.Score),
		Findings: findings,
		Summary:  summary,
	}
}
