package model

// Status classifies the outcome of a verification request
type Status string

const (
	StatusOK           Status = "ok"
	StatusInvalidInput Status = "invalid_input"
	StatusLimitReached Status = "limit_reached"
)

// VerifyRequest is the input to the verification pipeline
type VerifyRequest struct {
	AccountID string `json:"account_id"`
	Text      string `json:"text"`
	FromFile  bool   `json:"from_file,omitempty"` // File inputs always go through segmentation
	Locale    string `json:"locale,omitempty"`    // "en" (default) or "fr"
}

// VerifyResponse is the complete result returned to the caller.
// Refusals (invalid_input, limit_reached) are normal outcomes, not errors.
type VerifyResponse struct {
	RequestID string                       `json:"request_id"`
	Status    Status                       `json:"status"`
	Score     int                          `json:"score"`
	Summary   string                       `json:"summary,omitempty"`
	Breakdown map[AgentName]DimensionScore `json:"breakdown,omitempty"`
	Findings  []Finding                    `json:"findings,omitempty"`
	Sources   []Source                     `json:"sources,omitempty"`
	Segments  int                          `json:"segments,omitempty"`
	Quota     QuotaSnapshot                `json:"quota"`
}
