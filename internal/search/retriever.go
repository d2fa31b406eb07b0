package search

import (
	"context"

	"github.com/ottoverify/otto/internal/model"
)

// Retriever is the source-retrieval collaborator. An empty result is a
// valid (if degraded) outcome, not an error; implementations only return
// errors for unexpected internal failures.
type Retriever interface {
	Search(ctx context.Context, queries []string, originalText string) ([]model.Source, error)
}
