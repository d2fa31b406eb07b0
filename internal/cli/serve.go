package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ottoverify/otto/internal/config"
	"github.com/ottoverify/otto/internal/pipeline"
	"github.com/ottoverify/otto/internal/quota"
	"github.com/ottoverify/otto/internal/server"
)

var (
	serveAddr string
	initDB    bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification server",
	Long: `Serve exposes the verification pipeline over HTTP:
- POST /api/verify       run a verification for an account
- GET  /api/quota/:account  read an account's daily quota
- GET  /healthz          liveness probe

Quota records live in Postgres when quota.database_url (or
DATABASE_URL) is configured; otherwise an in-process store is used
and counters reset on restart.

Example:
  otto serve
  otto serve --addr :9090
  DATABASE_URL=postgres://localhost/otto otto serve --init-db`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&initDB, "init-db", false, "apply the quota schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.ApplyEnv(&cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	var store quota.Store
	if cfg.Quota.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := quota.Connect(ctx, cfg.Quota.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		pgStore := quota.NewPostgresStore(pool)
		if initDB {
			if err := pgStore.InitSchema(ctx); err != nil {
				return fmt.Errorf("init quota schema: %w", err)
			}
			fmt.Fprintln(os.Stderr, "Quota schema applied")
		}
		store = pgStore
		fmt.Fprintln(os.Stderr, "Quota store: postgres")
	} else {
		store = quota.NewMemoryStore()
		fmt.Fprintln(os.Stderr, "Quota store: memory (counters reset on restart)")
	}

	p, err := pipeline.FromConfig(cfg, store, logger)
	if err != nil {
		return err
	}

	return server.New(p, logger).Run(cfg.Server.Addr)
}
