package agents

import (
	"context"
	"fmt"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
)

// FreshnessDetector flags which cited data points are recent and which
// are stale. Score reflects overall data recency.
type FreshnessDetector struct {
	provider llm.Provider
}

// NewFreshnessDetector creates a freshness detector backed by the given provider
func NewFreshnessDetector(provider llm.Provider) *FreshnessDetector {
	return &FreshnessDetector{provider: provider}
}

func (a *FreshnessDetector) Name() model.AgentName {
	return model.AgentFreshnessDetector
}

const freshnessSystem = `You assess how current the data points in a text are: figures, statistics, rankings and dates. Respond with a single JSON object and nothing else.`

type freshnessResponse struct {
	Score      *int     `json:"score"`
	RecentData []string `json:"recent_data"`
	StaleData  []string `json:"stale_data"`
	Summary    string   `json:"summary"`
}

func (a *FreshnessDetector) Evaluate(ctx context.Context, text string, sources []model.Source) model.AgentResult {
	user := fmt.Sprintf(`Assess the recency of the data points in the text below, using the sources as reference.

TEXT:
%s

SOURCES:
%s

Return JSON: {"score": <0-100, overall recency of the cited data>, "recent_data": [...], "stale_data": [...], "summary": "<2 sentences>"}`,
		promptText(text), sourcesBlock(sources))

	var resp freshnessResponse
	if reason, ok := generate(ctx, a.provider, freshnessSystem, user, &resp); !ok {
		return model.NeutralResult(a.Name(), reason, "freshness detector collaborator unusable")
	}

	var findings []model.Finding
	findings = appendFindings(findings, model.FindingRecentData, resp.RecentData)
	findings = appendFindings(findings, model.FindingStaleData, resp.StaleData)

	summary := resp.Summary
	if summary == "" {
		summary = "Freshness review completed"
	}

	return model.AgentResult{
		Agent:    a.Name(),
		Score:    scoreOrNeutral(resp.Score),
		Findings: findings,
		Summary:  summary,
	}
}
