package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ottoverify/otto/internal/config"
	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/pipeline"
	"github.com/ottoverify/otto/internal/quota"
	"github.com/ottoverify/otto/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Verify every .txt file in a directory in parallel",
	Long: `Batch verifies multiple text files concurrently:
- Read every .txt file directly under the given directory
- Process files in parallel with a configurable worker count
- Print one result line per file

All files are charged to the same account, so plan limits apply to
the batch as a whole.

Example:
  otto batch ./articles
  otto batch ./articles --concurrency 8 --account team@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&account, "account", "cli@local", "account id charged for the verifications")
	batchCmd.Flags().StringVar(&locale, "locale", "", "summary locale (en, fr)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Otto Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Account:      %s\n", account)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.ApplyEnv(&cfg)

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.FromConfig(cfg, quota.NewMemoryStore(), logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, account, locale, concurrency)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no .txt files found in %s", dir)
	}

	failures := 0
	for _, result := range results {
		switch {
		case result.Error != nil:
			failures++
			fmt.Printf("✗ %-40s error: %v\n", result.Path, result.Error)
		case result.Response.Status == model.StatusInvalidInput:
			failures++
			fmt.Printf("✗ %-40s invalid input\n", result.Path)
		case result.Response.Status == model.StatusLimitReached:
			failures++
			fmt.Printf("✗ %-40s daily limit reached\n", result.Path)
		default:
			fmt.Printf("✓ %-60s %3d/100  (%d segments)\n",
				result.Path, result.Response.Score, result.Response.Segments)
		}
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d files, %d failed\n", len(results), failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}
