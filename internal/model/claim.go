package model

// Claim represents a candidate factual assertion extracted from the input text
type Claim struct {
	Type       ClaimType `json:"type"`                // Pattern class that produced the claim
	Text       string    `json:"text"`                // The claim text itself (one sentence)
	Verifiable bool      `json:"verifiable"`          // Whether the claim can be checked against sources
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimQuantitative ClaimType = "quantitative" // Numbers with units, percentages, counts
	ClaimDate         ClaimType = "date"         // Four-digit years, dated events
	ClaimHistorical   ClaimType = "historical"   // Historical vocabulary (wars, treaties, dynasties)
	ClaimGeographic   ClaimType = "geographic"   // Places, borders, capitals
	ClaimScientific   ClaimType = "scientific"   // Studies, research, scientific vocabulary
)
