package search

import (
	"net/url"
	"strings"

	"github.com/ottoverify/otto/internal/model"
)

// CredibilityClassifier classifies source domains into credibility tiers
type CredibilityClassifier struct {
	highMap map[string]bool
	lowMap  map[string]bool
}

// Built-in host lists; config entries extend them
var (
	defaultHighTierHosts = []string{
		"reuters.com", "apnews.com", "bbc.com", "bbc.co.uk", "nature.com",
		"science.org", "nejm.org", "who.int", "un.org", "europa.eu",
		"nasa.gov", "noaa.gov", "nih.gov", "lemonde.fr", "afp.com",
		"britannica.com",
	}
	defaultLowTierHosts = []string{
		"beforeitsnews.com", "naturalnews.com", "infowars.com",
		"worldtruth.tv", "yournewswire.com",
	}
)

// NewCredibilityClassifier creates a classifier from configuration
func NewCredibilityClassifier(cfg model.SearchConfig) *CredibilityClassifier {
	classifier := &CredibilityClassifier{
		highMap: make(map[string]bool),
		lowMap:  make(map[string]bool),
	}

	for _, host := range defaultHighTierHosts {
		classifier.highMap[host] = true
	}
	for _, host := range cfg.HighTierHosts {
		classifier.highMap[host] = true
	}

	for _, host := range defaultLowTierHosts {
		classifier.lowMap[host] = true
	}
	for _, host := range cfg.LowTierHosts {
		classifier.lowMap[host] = true
	}

	return classifier
}

// Classify returns the credibility tier for a URL
func (c *CredibilityClassifier) Classify(rawURL string) model.CredibilityTier {
	host := Domain(rawURL)
	if host == "" {
		return model.CredibilityLow
	}

	if c.matches(c.lowMap, host) {
		return model.CredibilityLow
	}
	if c.matches(c.highMap, host) {
		return model.CredibilityHigh
	}

	// Government and academic TLDs are authoritative by convention
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") ||
		strings.HasSuffix(host, ".gouv.fr") || strings.HasSuffix(host, ".ac.uk") {
		return model.CredibilityHigh
	}

	return model.CredibilityMedium
}

func (c *CredibilityClassifier) matches(set map[string]bool, host string) bool {
	if set[host] {
		return true
	}
	for domain := range set {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Domain extracts the host from a URL, without port or www prefix
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := parsed.Host
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}
