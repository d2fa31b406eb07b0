package model

// DimensionScore is one agent's contribution to the reliability score
type DimensionScore struct {
	Weight float64 `json:"weight"`
	Score  int     `json:"score"`
}

// ReliabilityScore is the single 0-100 output combining all agent
// dimensions. It is recomputed on every request, never stored.
type ReliabilityScore struct {
	Value     int                          `json:"value"`
	Breakdown map[AgentName]DimensionScore `json:"breakdown"`
	Summary   string                       `json:"summary,omitempty"`
}
