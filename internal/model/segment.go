package model

// Segment is a contiguous, paragraph-respecting chunk of a long document.
// Segments are ordered; concatenating their texts (modulo whitespace
// normalization) reconstructs the normalized input.
type Segment struct {
	Index   int                       `json:"index"`
	Text    string                    `json:"text"`
	Results map[AgentName]AgentResult `json:"agent_results"`
}

// AggregatedResult is the length-weighted combination of all segments'
// agent results, one score per dimension.
type AggregatedResult struct {
	Scores       map[AgentName]int `json:"scores"`
	Findings     []Finding         `json:"findings,omitempty"`
	Manipulation bool              `json:"manipulation_detected"`
	Segments     int               `json:"segments"`
	TotalChars   int               `json:"total_chars"`
}
