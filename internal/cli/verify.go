package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ottoverify/otto/internal/config"
	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/pipeline"
	"github.com/ottoverify/otto/internal/quota"
)

var (
	account       string
	locale        string
	verifyTimeout time.Duration
	asJSON        bool
	llmProvider   string
	llmModel      string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file|->",
	Short: "Verify the reliability of a text",
	Long: `Verify runs the full reliability analysis over one text:
- Normalize the input and extract claims and keywords
- Retrieve candidate sources for the claims
- Run the four evaluators (facts, sources, context, freshness)
- Combine their scores into one 0-100 reliability value
- Generate a localized synthesis of the findings

Reads the text from the given file, or from stdin when the argument
is "-".

Example:
  otto verify article.txt
  cat article.txt | otto verify -
  otto verify article.txt --locale fr --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&account, "account", "cli@local", "account id charged for the verification")
	verifyCmd.Flags().StringVar(&locale, "locale", "", "summary locale (en, fr)")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")

	// LLM flags
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text, fromFile, err := readInput(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	config.ApplyEnv(&cfg)

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.FromConfig(cfg, quota.NewMemoryStore(), logger)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying %d characters\n", len(text))
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	resp, err := p.Verify(ctx, model.VerifyRequest{
		AccountID: account,
		Text:      text,
		FromFile:  fromFile,
		Locale:    locale,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printResponse(resp)
	return nil
}

// readInput loads the text from a file or stdin ("-")
func readInput(arg string) (string, bool, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), false, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return string(data), true, nil
}

func printResponse(resp *model.VerifyResponse) {
	switch resp.Status {
	case model.StatusInvalidInput:
		fmt.Println("Input rejected: text is empty or below the minimum length.")
		return
	case model.StatusLimitReached:
		fmt.Printf("Daily limit reached (plan %s, %d/%d used).\n",
			resp.Quota.Plan, resp.Quota.VerificationsUsed, resp.Quota.VerificationsLimit)
		return
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Reliability: %d/100\n", resp.Score)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	for _, name := range model.AgentOrder {
		if dim, ok := resp.Breakdown[name]; ok {
			fmt.Printf("  %-20s %3d  (weight %.1f)\n", name, dim.Score, dim.Weight)
		}
	}
	if resp.Segments > 1 {
		fmt.Printf("\n  Segments analyzed: %d\n", resp.Segments)
	}

	if resp.Summary != "" {
		fmt.Println()
		fmt.Println(resp.Summary)
	}

	if len(resp.Findings) > 0 {
		fmt.Println()
		fmt.Println("Findings:")
		for _, f := range resp.Findings {
			fmt.Printf("  [%s] %s\n", f.Type, f.Detail)
		}
	}

	if len(resp.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for i, src := range resp.Sources {
			fmt.Printf("  %d. %s (%s, %s)\n", i+1, src.Title, src.Domain, src.Credibility)
		}
	}

	fmt.Println()
	fmt.Printf("Quota: %d/%d verifications used today\n",
		resp.Quota.VerificationsUsed, resp.Quota.VerificationsLimit)
}
