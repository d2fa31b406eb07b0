package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/worker"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MiB per response is plenty for snippets

// Client retrieves candidate sources from a web-search API. Missing
// credentials or provider failures degrade to an empty result set.
type Client struct {
	endpoint   string
	apiKey     string
	maxResults int
	httpClient *http.Client
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// NewClient creates a search client from configuration
func NewClient(cfg model.SearchConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    worker.NewLimiter(rps, cfg.Burst),
		logger:     logger,
	}
}

// searchResponse is the provider's wire format
type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search runs the queries against the provider, deduplicates by URL and
// caps the combined result count. Provider failures are logged and
// yield whatever was collected so far.
func (c *Client) Search(ctx context.Context, queries []string, originalText string) ([]model.Source, error) {
	if c.endpoint == "" || c.apiKey == "" {
		c.logger.Debug("search disabled: missing endpoint or credentials")
		return nil, nil
	}

	var sources []model.Source
	seen := make(map[string]bool)

	for _, query := range queries {
		if len(sources) >= c.maxResults {
			break
		}

		results, err := c.searchOne(ctx, query)
		if err != nil {
			c.logger.Warn("search query failed",
				zap.String("query", query),
				zap.Error(err))
			continue
		}

		for _, src := range results {
			if len(sources) >= c.maxResults {
				break
			}
			if src.URL == "" || seen[src.URL] {
				continue
			}
			seen[src.URL] = true
			sources = append(sources, src)
		}
	}

	return sources, nil
}

func (c *Client) searchOne(ctx context.Context, query string) ([]model.Source, error) {
	if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s?q=%s&count=%d", c.endpoint, url.QueryEscape(query), c.maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	sources := make([]model.Source, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		sources = append(sources, model.Source{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		})
	}
	return sources, nil
}
