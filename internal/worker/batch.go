package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ottoverify/otto/internal/model"
)

// Verifier runs one verification request; satisfied by pipeline.Verifier
type Verifier interface {
	Verify(ctx context.Context, req model.VerifyRequest) (*model.VerifyResponse, error)
}

// VerifyJob runs the pipeline over one input file
type VerifyJob struct {
	Path      string
	AccountID string
	Locale    string
	Verifier  Verifier
}

// Execute executes the verification job
func (j *VerifyJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &VerifyResult{Path: j.Path, Error: fmt.Errorf("read input: %w", err)}
	}

	resp, err := j.Verifier.Verify(ctx, model.VerifyRequest{
		AccountID: j.AccountID,
		Text:      string(data),
		FromFile:  true,
		Locale:    j.Locale,
	})
	if err != nil {
		return &VerifyResult{Path: j.Path, Error: err}
	}

	return &VerifyResult{Path: j.Path, Response: resp}
}

// VerifyResult represents the result of a verification job
type VerifyResult struct {
	Path     string
	Response *model.VerifyResponse
	Error    error
}

// GetError returns the error from the verification result
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple input files concurrently
type BatchProcessor struct {
	verifier    Verifier
	accountID   string
	locale      string
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, accountID, locale string, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		accountID:   accountID,
		locale:      locale,
		concurrency: concurrency,
	}
}

// ProcessFiles verifies the given files concurrently
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*VerifyResult {
	if len(paths) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&VerifyJob{
			Path:      path,
			AccountID: b.accountID,
			Locale:    b.locale,
			Verifier:  b.verifier,
		})
	}

	results := pool.Wait()

	verifyResults := make([]*VerifyResult, len(results))
	for i, result := range results {
		verifyResults[i] = result.(*VerifyResult)
	}

	return verifyResults
}

// ProcessDir verifies every .txt file in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*VerifyResult, error) {
	paths, err := ListTextFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}

	return b.ProcessFiles(ctx, paths), nil
}

// ListTextFiles returns the sorted .txt files directly under dir
func ListTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
