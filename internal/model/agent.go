package model

// AgentName identifies one of the four evaluation dimensions
type AgentName string

const (
	AgentFactChecker       AgentName = "fact_checker"
	AgentSourceAnalyst     AgentName = "source_analyst"
	AgentContextGuardian   AgentName = "context_guardian"
	AgentFreshnessDetector AgentName = "freshness_detector"
)

// AgentOrder is the canonical ordering of agents used for deterministic output
var AgentOrder = []AgentName{
	AgentFactChecker,
	AgentSourceAnalyst,
	AgentContextGuardian,
	AgentFreshnessDetector,
}

// FindingType tags a structured finding produced by an agent
type FindingType string

const (
	FindingVerifiedClaim    FindingType = "verified_claim"
	FindingUnverifiedClaim  FindingType = "unverified_claim"
	FindingCredibleSource   FindingType = "credible_source"
	FindingSuspiciousSource FindingType = "suspicious_source"
	FindingMissingContext   FindingType = "missing_context"
	FindingRecentData       FindingType = "recent_data"
	FindingStaleData        FindingType = "stale_data"
	FindingUnavailable      FindingType = "unavailable"
	FindingParseError       FindingType = "parse_error"
)

// Finding is one structured observation from an agent
type Finding struct {
	Type         FindingType `json:"type"`
	Detail       string      `json:"detail,omitempty"`
	SegmentIndex int         `json:"segment_index"` // Set by the aggregator for traceability
}

// AgentResult is the output of one agent over one segment.
// Score is always clamped to [0,100].
type AgentResult struct {
	Agent        AgentName `json:"agent"`
	Score        int       `json:"score"`
	Findings     []Finding `json:"findings,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Manipulation bool      `json:"manipulation_detected,omitempty"`
}

// NeutralScore is the default score when an agent's backing collaborator
// is unavailable or returns an unparsable response.
const NeutralScore = 50

// NeutralResult returns the degraded-but-valid result an agent emits when
// its collaborator cannot be used. It never represents a pipeline failure.
func NeutralResult(agent AgentName, reason FindingType, detail string) AgentResult {
	return AgentResult{
		Agent:   agent,
		Score:   NeutralScore,
		Summary: "Agent unavailable",
		Findings: []Finding{
			{Type: reason, Detail: detail},
		},
	}
}

// ClampScore forces a score into [0,100]
func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
