package model

// Source represents an external reference retrieved as potential evidence
type Source struct {
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Snippet     string          `json:"snippet,omitempty"`
	Domain      string          `json:"domain,omitempty"`      // Host extracted from URL
	Credibility CredibilityTier `json:"credibility"`           // Domain credibility classification
	Relevance   float64         `json:"relevance"`             // Similarity to the input text, [0,1]
}

// CredibilityTier represents the classification of a source domain
type CredibilityTier int

const (
	CredibilityUnknown CredibilityTier = 0 // Not yet classified
	CredibilityHigh    CredibilityTier = 1 // Government, academic, major outlets
	CredibilityMedium  CredibilityTier = 2 // Established publishers, general web
	CredibilityLow     CredibilityTier = 3 // Content farms, known unreliable domains
)

func (t CredibilityTier) String() string {
	switch t {
	case CredibilityHigh:
		return "high"
	case CredibilityMedium:
		return "medium"
	case CredibilityLow:
		return "low"
	default:
		return "unknown"
	}
}
