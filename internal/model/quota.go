package model

import "time"

// Plan identifies a subscription tier
type Plan string

const (
	PlanFree       Plan = "free"
	PlanStarter    Plan = "starter"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Unlimited marks a plan limit that never refuses
const Unlimited = -1

// PlanLimits holds the per-day allowances of one plan
type PlanLimits struct {
	DailyVerifications int `json:"daily_verifications"`
	DailyAgentAnalyses int `json:"daily_agent_analyses"`
}

// planTable is the static plan -> limits policy table
var planTable = map[Plan]PlanLimits{
	PlanFree:       {DailyVerifications: 3, DailyAgentAnalyses: 12},
	PlanStarter:    {DailyVerifications: 25, DailyAgentAnalyses: 100},
	PlanPro:        {DailyVerifications: 200, DailyAgentAnalyses: 800},
	PlanEnterprise: {DailyVerifications: Unlimited, DailyAgentAnalyses: Unlimited},
}

// LimitsFor returns the limits for a plan. Unknown plans get the free tier.
func LimitsFor(p Plan) PlanLimits {
	if limits, ok := planTable[p]; ok {
		return limits
	}
	return planTable[PlanFree]
}

// UsageQuota is the per-account daily usage record. Counters reset to zero
// the first time the account is touched after UTC midnight.
type UsageQuota struct {
	AccountID              string    `json:"account_id"`
	Plan                   Plan      `json:"plan"`
	DailyVerificationsUsed int       `json:"daily_verifications_used"`
	DailyAgentAnalysesUsed int       `json:"daily_agent_analyses_used"`
	LastResetDate          time.Time `json:"last_reset_date"`
}

// QuotaSnapshot is the caller-facing view of an account's quota state
type QuotaSnapshot struct {
	Plan                   Plan `json:"plan"`
	VerificationsUsed      int  `json:"verifications_used"`
	VerificationsLimit     int  `json:"verifications_limit"`
	RemainingVerifications int  `json:"remaining_verifications"`
	AgentAnalysesUsed      int  `json:"agent_analyses_used"`
	AgentAnalysesLimit     int  `json:"agent_analyses_limit"`
}

// Snapshot derives the caller-facing quota view from the stored record
func (u UsageQuota) Snapshot() QuotaSnapshot {
	limits := LimitsFor(u.Plan)
	return QuotaSnapshot{
		Plan:                   u.Plan,
		VerificationsUsed:      u.DailyVerificationsUsed,
		VerificationsLimit:     limits.DailyVerifications,
		RemainingVerifications: remaining(limits.DailyVerifications, u.DailyVerificationsUsed),
		AgentAnalysesUsed:      u.DailyAgentAnalysesUsed,
		AgentAnalysesLimit:     limits.DailyAgentAnalyses,
	}
}

func remaining(limit, used int) int {
	if limit == Unlimited {
		return Unlimited
	}
	if used >= limit {
		return 0
	}
	return limit - used
}

// UTCDate truncates a time to its UTC calendar day
func UTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
