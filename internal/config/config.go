package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/ottoverify/otto/internal/model"
)

// Load layers the viper state (config file, OTTO_* env vars, bound
// flags) over the built-in defaults. The CLI initializes viper before
// calling this.
func Load() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}
	ApplyEnv(&cfg)
	return cfg, nil
}

// ApplyEnv fills credentials from the conventional environment
// variables when the config left them empty. Explicit config always
// wins.
func ApplyEnv(cfg *model.Config) {
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = base
			}
		}
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = os.Getenv("OTTO_SEARCH_API_KEY")
	}
	if cfg.Quota.DatabaseURL == "" {
		cfg.Quota.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}
