package search

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ottoverify/otto/internal/cache"
	"github.com/ottoverify/otto/internal/model"
)

// CachedRetriever wraps a Retriever with a best-effort TTL cache keyed
// on the query set. Cache failures fall through to the inner retriever.
type CachedRetriever struct {
	inner Retriever
	store cache.Cache
	ttl   time.Duration
}

// NewCachedRetriever creates a caching wrapper around inner
func NewCachedRetriever(inner Retriever, store cache.Cache, ttl time.Duration) *CachedRetriever {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedRetriever{
		inner: inner,
		store: store,
		ttl:   ttl,
	}
}

// Search returns cached results when available, otherwise delegates and
// stores the outcome
func (r *CachedRetriever) Search(ctx context.Context, queries []string, originalText string) ([]model.Source, error) {
	key := cache.Key("search", strings.Join(queries, "\n"))

	if data, found := r.store.Get(key); found {
		var sources []model.Source
		if err := json.Unmarshal(data, &sources); err == nil {
			return sources, nil
		}
		// Corrupt entry; drop it and recompute
		_ = r.store.Delete(key)
	}

	sources, err := r.inner.Search(ctx, queries, originalText)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sources); err == nil {
		_ = r.store.Set(key, data, r.ttl)
	}
	return sources, nil
}
