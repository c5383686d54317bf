package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/llm"
	"github.com/jonathan/docsynth/internal/observability"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/types"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List text-generation providers and which ones are configured",
	Long:  "List every known provider in priority order, marking those with credentials. --probe sends a minimal request to each configured provider.",
	RunE:  runProviders,
}

var (
	providersProbe bool
	providersJSON  bool
)

func init() {
	providersCmd.Flags().BoolVar(&providersProbe, "probe", false, "Ping each configured provider")
	providersCmd.Flags().BoolVar(&providersJSON, "json", false, "Print as JSON")

	rootCmd.AddCommand(providersCmd)
}

// providersOutput is the --json form of the command
type providersOutput struct {
	Providers  []types.ProviderDescriptor `json:"providers"`
	Configured []types.ProviderKind       `json:"configured"`
	Probe      []orchestrator.ProbeResult `json:"probe,omitempty"`
}

func runProviders(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	llmCfg := cfg.LLMConfig()
	creds := llm.CredentialsFromEnv(getenv)

	output := providersOutput{Providers: llm.AllDescriptors(llmCfg), Configured: []types.ProviderKind{}}
	configured := make(map[types.ProviderKind]bool, len(creds))
	for _, d := range llm.Detect(creds, llmCfg) {
		configured[d.Kind] = true
		output.Configured = append(output.Configured, d.Kind)
	}

	if providersProbe {
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		orch, _ := newOrchestrator(ctx, cmd, cfg, engine)
		defer func() { _ = orch.Close() }()
		if output.Probe, err = orch.Probe(ctx); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if providersJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	observability.NewPrinter(out).PrintProviders(output.Providers, configured)
	for _, r := range output.Probe {
		status := "ok"
		if !r.OK {
			status = fmt.Sprintf("failed [%s] %s", r.FailureKind, r.Error)
		}
		_, _ = fmt.Fprintf(out, "%-20s %6dms  %s\n", r.Provider.Name, r.DurationMS, status)
	}
	return nil
}
