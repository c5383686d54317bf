package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/config"
	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// getenv is swapped in tests
var getenv = os.Getenv

// loadConfig resolves the --config file, the environment and the defaults, in that order of priority
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", configPath)
		}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newEngine builds the synthesis engine over the configured or embedded catalog
func newEngine(cfg config.Config) (*synthesis.Engine, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}
	return synthesis.New(cat), nil
}

// newOrchestrator builds the provider chain from the credentials in the environment.
// Providers that fail to initialize are reported and left out of the chain.
func newOrchestrator(ctx context.Context, cmd *cobra.Command, cfg config.Config, engine *synthesis.Engine) (*orchestrator.Orchestrator, llm.Credentials) {
	creds := llm.CredentialsFromEnv(getenv)
	llmCfg := cfg.LLMConfig()

	providers, failures := llm.NewProviders(ctx, llm.Detect(creds, llmCfg), creds, llmCfg, llm.DefaultHTTPClient())
	for kind, err := range failures {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: provider %s unavailable: %v\n", kind, err)
	}

	opts := orchestrator.Options{
		AttemptTimeout: cfg.AttemptTimeoutDuration(),
		Params:         cfg.Params(),
		Logger:         log.New(cmd.ErrOrStderr(), "", log.LstdFlags),
	}
	if cfg.Verbose {
		opts.OnAttempt = func(requestID string, a types.Attempt) {
			opts.Logger.Printf("[attempt] %s %s %s %dms", requestID, a.Provider, a.Status, a.DurationMS)
		}
	}
	return orchestrator.New(providers, engine, opts), creds
}

// readText returns the request text from --text, --file, positional args or stdin, in that order
func readText(cmd *cobra.Command, text, file string, args []string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("request text is required (use --text, --file, arguments or stdin)")
}
