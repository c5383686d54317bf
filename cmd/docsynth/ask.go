package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/observability"
	"github.com/jonathan/docsynth/internal/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [text...]",
	Short: "Generate a document through the provider chain",
	Long: `Send the request to the configured text-generation providers in priority order. The first provider
that answers wins; when none does, the deterministic engine produces the document.

Providers are enabled by their credentials: GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,
GROQ_API_KEY, TOGETHER_API_KEY, COHERE_API_KEY and OLLAMA_URL.`,
	RunE: runAsk,
}

var (
	askText        string
	askFile        string
	askKind        string
	askTier        string
	askTemperature float64
	askMaxTokens   int
	askJSON        bool
)

func init() {
	askCmd.Flags().StringVarP(&askText, "text", "t", "", "Request text")
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "Path to a file holding the request text")
	askCmd.Flags().StringVarP(&askKind, "kind", "k", "quotation", "Document kind: quotation, project or report")
	askCmd.Flags().StringVar(&askTier, "tier", "simple", "Tier: simple or complex")
	askCmd.Flags().Float64Var(&askTemperature, "temperature", 0, "Sampling temperature (0 uses the configured default)")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "Maximum output tokens (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the full response as JSON")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd, askText, askFile, args)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	orch, _ := newOrchestrator(ctx, cmd, cfg, engine)
	defer func() { _ = orch.Close() }()

	resp, err := orch.Generate(ctx, types.OrchestrateRequest{
		Prompt:      text,
		Kind:        askKind,
		Tier:        askTier,
		Temperature: askTemperature,
		MaxTokens:   askMaxTokens,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printer := observability.NewPrinter(out)
	printer.PrintAttempts(resp)
	if resp.Document != nil {
		printer.PrintDocument(*resp.Document)
	}
	if !resp.Fallback || resp.Document == nil {
		_, _ = fmt.Fprintln(out, resp.Text)
	}
	return nil
}
