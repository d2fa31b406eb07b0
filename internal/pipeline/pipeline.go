package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ottoverify/otto/internal/agents"
	"github.com/ottoverify/otto/internal/cache"
	"github.com/ottoverify/otto/internal/extract"
	"github.com/ottoverify/otto/internal/llm"
	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/normalize"
	"github.com/ottoverify/otto/internal/quota"
	"github.com/ottoverify/otto/internal/score"
	"github.com/ottoverify/otto/internal/search"
	"github.com/ottoverify/otto/internal/segment"
	"github.com/ottoverify/otto/internal/similarity"
	"github.com/ottoverify/otto/internal/summary"
)

const maxResponseSources = 10

// Pipeline runs one verification request end to end: normalize, admit,
// extract, retrieve, evaluate, aggregate, score, summarize, record.
// Collaborator failures degrade locally; only storage errors propagate.
type Pipeline struct {
	normalizer  *normalize.Normalizer
	minChars    int
	gate        *quota.Gatekeeper
	claims      *extract.ClaimExtractor
	keywords    *extract.KeywordExtractor
	queries     *extract.QueryBuilder
	retriever   search.Retriever
	enricher    *search.Enricher
	runner      *agents.Runner
	aggregator  *segment.Aggregator
	scorer      *score.Scorer
	summarizer  *summary.Generator
	responses   cache.Cache
	responseTTL time.Duration
	locale      string
	logger      *zap.Logger
}

// Deps are the injectable collaborators of a pipeline. Nil Retriever,
// Provider and Responses are valid and select the degraded paths.
type Deps struct {
	Gatekeeper *quota.Gatekeeper
	Retriever  search.Retriever
	Provider   llm.Provider
	Responses  cache.Cache
	Logger     *zap.Logger
}

// New assembles a pipeline from configuration and collaborators
func New(cfg model.Config, deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	minChars := cfg.Input.MinChars
	if minChars <= 0 {
		minChars = 10
	}

	runner := agents.NewRunner(deps.Provider)
	classifier := search.NewCredibilityClassifier(cfg.Search)
	sim := similarity.New(cfg.Similarity.Strategy)

	return &Pipeline{
		normalizer:  normalize.New(cfg.Input.MaxChars),
		minChars:    minChars,
		gate:        deps.Gatekeeper,
		claims:      extract.NewClaimExtractor(),
		keywords:    extract.NewKeywordExtractor(),
		queries:     extract.NewQueryBuilder(),
		retriever:   deps.Retriever,
		enricher:    search.NewEnricher(classifier, sim),
		runner:      runner,
		aggregator:  segment.NewAggregator(runner, cfg.Input.SegmentThreshold, cfg.Input.MaxSegmentChars),
		scorer:      score.New(cfg.Scoring),
		summarizer:  summary.NewGenerator(deps.Provider, cfg.Summary, logger),
		responses:   deps.Responses,
		responseTTL: cfg.Cache.ResponseTTL,
		locale:      cfg.Summary.Locale,
		logger:      logger,
	}
}

// FromConfig builds a pipeline with real collaborators wired from
// configuration. The quota store is passed in so callers pick memory
// or Postgres.
func FromConfig(cfg model.Config, store quota.Store, logger *zap.Logger) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	var retriever search.Retriever = search.NewClient(cfg.Search, logger)
	var responses cache.Cache
	if cfg.Cache.Enabled {
		searchCache := cache.NewMemoryCache(cfg.Cache.SearchTTL, 10*time.Minute)
		retriever = search.NewCachedRetriever(retriever, searchCache, cfg.Cache.SearchTTL)
		responses = cache.NewMemoryCache(cfg.Cache.ResponseTTL, 10*time.Minute)
	}

	return New(cfg, Deps{
		Gatekeeper: quota.NewGatekeeper(store, logger),
		Retriever:  retriever,
		Provider:   provider,
		Responses:  responses,
		Logger:     logger,
	}), nil
}

// Verify runs the full pipeline for one request. Refusals come back as
// normal responses with a non-ok status; the error return is reserved
// for storage failures.
func (p *Pipeline) Verify(ctx context.Context, req model.VerifyRequest) (*model.VerifyResponse, error) {
	requestID := uuid.NewString()
	locale := req.Locale
	if locale == "" {
		locale = p.locale
	}

	text := p.normalizer.Clean(req.Text)
	if len([]rune(text)) < p.minChars {
		return &model.VerifyResponse{
			RequestID: requestID,
			Status:    model.StatusInvalidInput,
		}, nil
	}

	snapshot, admitted, err := p.gate.Admit(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !admitted {
		return &model.VerifyResponse{
			RequestID: requestID,
			Status:    model.StatusLimitReached,
			Quota:     snapshot,
		}, nil
	}

	if cached, ok := p.cachedResponse(req.AccountID, text, locale); ok {
		cached.RequestID = requestID
		cached.Quota = snapshot
		p.logger.Debug("verification served from cache", zap.String("request_id", requestID))
		return cached, nil
	}

	sources := p.retrieve(ctx, text)

	segments, agg := p.aggregator.Process(ctx, text, sources, req.FromFile)
	reliability := p.scorer.Compute(agg.Scores)
	reliability.Summary = p.summarizer.Generate(ctx, locale, segments, reliability)

	p.gate.RecordAgentAnalyses(ctx, req.AccountID, len(segments)*p.runner.Count())

	if len(sources) > maxResponseSources {
		sources = sources[:maxResponseSources]
	}

	resp := &model.VerifyResponse{
		RequestID: requestID,
		Status:    model.StatusOK,
		Score:     reliability.Value,
		Summary:   reliability.Summary,
		Breakdown: reliability.Breakdown,
		Findings:  agg.Findings,
		Sources:   sources,
		Segments:  agg.Segments,
		Quota:     snapshot,
	}
	p.storeResponse(req.AccountID, text, locale, resp)

	p.logger.Info("verification complete",
		zap.String("request_id", requestID),
		zap.Int("score", resp.Score),
		zap.Int("segments", resp.Segments),
		zap.Int("sources", len(sources)))
	return resp, nil
}

// Quota returns the caller-facing quota view for an account
func (p *Pipeline) Quota(ctx context.Context, accountID string) (model.QuotaSnapshot, error) {
	return p.gate.Snapshot(ctx, accountID)
}

// retrieve builds queries from the text and asks the retriever for
// sources. Any failure degrades to an empty source set.
func (p *Pipeline) retrieve(ctx context.Context, text string) []model.Source {
	if p.retriever == nil {
		return nil
	}

	claims := p.claims.Extract(text)
	keywords := p.keywords.Extract(text)
	queries := p.queries.Build(claims, keywords, text)
	if len(queries) == 0 {
		return nil
	}

	sources, err := p.retriever.Search(ctx, queries, text)
	if err != nil {
		p.logger.Warn("source retrieval failed", zap.Error(err))
		return nil
	}
	return p.enricher.Enrich(sources, text)
}

func (p *Pipeline) cachedResponse(accountID, text, locale string) (*model.VerifyResponse, bool) {
	if p.responses == nil {
		return nil, false
	}

	data, ok := p.responses.Get(cache.Key("verify", accountID, text, locale))
	if !ok {
		return nil, false
	}
	var resp model.VerifyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		_ = p.responses.Delete(cache.Key("verify", accountID, text, locale))
		return nil, false
	}
	return &resp, true
}

func (p *Pipeline) storeResponse(accountID, text, locale string, resp *model.VerifyResponse) {
	if p.responses == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = p.responses.Set(cache.Key("verify", accountID, text, locale), data, p.responseTTL)
}
