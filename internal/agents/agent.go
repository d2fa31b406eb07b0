package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
)

// Evaluator is the shared contract of the four scoring dimensions. An
// evaluator never fails past its own boundary: collaborator problems
// degrade to the neutral default result for that dimension only.
type Evaluator interface {
	Name() model.AgentName
	Evaluate(ctx context.Context, text string, sources []model.Source) model.AgentResult
}

// Prompt inputs are capped so long documents do not blow token budgets;
// segmentation upstream keeps per-call text under this anyway
const maxPromptChars = 4000

const maxAgentTokens = 600

// generate calls the provider and decodes the embedded JSON object into
// out. The ok return is false when the caller should fall back to the
// neutral default; reason carries the finding type to report.
func generate(ctx context.Context, provider llm.Provider, system, user string, out any) (reason model.FindingType, ok bool) {
	if provider == nil {
		return model.FindingUnavailable, false
	}

	output, err := provider.Generate(ctx, system, user, maxAgentTokens)
	if err != nil || strings.TrimSpace(output) == "" {
		return model.FindingUnavailable, false
	}

	if err := llm.DecodeInto(output, out); err != nil {
		return model.FindingParseError, false
	}
	return "", true
}

// sourcesBlock renders the retrieved sources for a prompt. Agents see at
// most ten sources; the enricher has already ranked them by relevance.
func sourcesBlock(sources []model.Source) string {
	if len(sources) == 0 {
		return "(no sources retrieved)"
	}

	var sb strings.Builder
	for i, src := range sources {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s - %s (%s credibility)\n   %s\n",
			i+1, src.Title, src.URL, src.Credibility, src.Snippet)
	}
	return sb.String()
}

func promptText(text string) string {
	runes := []rune(text)
	if len(runes) <= maxPromptChars {
		return text
	}
	return string(runes[:maxPromptChars])
}

// scoreOrNeutral resolves an optional score field with clamping
func scoreOrNeutral(score *int) int {
	if score == nil {
		return model.NeutralScore
	}
	return model.ClampScore(*score)
}

func appendFindings(findings []model.Finding, kind model.FindingType, details []string) []model.Finding {
	for _, detail := range details {
		detail = strings.TrimSpace(detail)
		if detail == "" {
			continue
		}
		findings = append(findings, model.Finding{Type: kind, Detail: detail})
	}
	return findings
}
