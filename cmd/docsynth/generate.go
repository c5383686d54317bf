package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/config"
	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/documents"
	"github.com/jonathan/docsynth/internal/extraction"
	"github.com/jonathan/docsynth/internal/observability"
	"github.com/jonathan/docsynth/internal/orchestrator"
	"github.com/jonathan/docsynth/internal/sequence"
	"github.com/jonathan/docsynth/internal/synthesis"
	"github.com/jonathan/docsynth/internal/types"
)

// generateOutput is the --json form of a generated document
type generateOutput struct {
	ID string `json:"id,omitempty"`
	synthesis.Result
}

var generateCmd = &cobra.Command{
	Use:   "generate [text...]",
	Short: "Generate a document with the deterministic engine",
	Long: `Generate a quotation, project plan or report from a free-text request, without calling any external provider.

Use --tier auto to pick the tier from complexity markers in the text. Quotations are numbered from Redis
when REDIS_URL is set, or from PostgreSQL with --save; otherwise they carry a draft number.`,
	RunE: runGenerate,
}

var (
	generateText   string
	generateFile   string
	generateKind   string
	generateTier   string
	generateClient string
	generateJSON   bool
	generateSave   bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateText, "text", "t", "", "Request text")
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "Path to a file holding the request text")
	generateCmd.Flags().StringVarP(&generateKind, "kind", "k", "quotation", "Document kind: quotation, project or report")
	generateCmd.Flags().StringVar(&generateTier, "tier", "simple", "Tier: simple, complex or auto")
	generateCmd.Flags().StringVar(&generateClient, "client", "", "Client name (overrides the one found in the text)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the result as JSON")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "Persist the document to PostgreSQL (requires DATABASE_URL)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd, generateText, generateFile, args)
	if err != nil {
		return err
	}

	tier := generateTier
	if tier == "auto" {
		tier = string(extraction.SuggestTier(text, extraction.Extract(text)))
		if cfg.Verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Suggested tier: %s\n", tier)
		}
	}
	req := types.GenerateRequest{Text: text, Kind: generateKind, Tier: tier, Client: generateClient, Save: generateSave}
	if err := req.Validate(); err != nil {
		return types.AsInvalidRequest(err)
	}

	var store *db.DB
	if generateSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		store, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	dc := documents.Context{IssueDate: now}
	if req.Kind == string(types.KindQuotation) {
		if dc.Number, err = quotationNumber(ctx, cfg, store, now); err != nil {
			return err
		}
	}

	result, err := engine.GenerateRequest(req, dc)
	if err != nil {
		return err
	}

	var id string
	if store != nil {
		stored, err := store.SaveDocument(ctx, db.SaveDocumentInput{
			Document: result.Document,
			Summary:  result.Summary,
			Provider: orchestrator.EngineProviderName,
		})
		if err != nil {
			return err
		}
		id = stored.ID.String()
	}

	out := cmd.OutOrStdout()
	if generateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(generateOutput{ID: id, Result: result})
	}

	if cfg.Verbose {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Service: %s, tier: %s\n", result.Service, result.Tier)
	}
	observability.NewPrinter(out).PrintDocument(result.Document)
	_, _ = fmt.Fprintln(out, result.Summary)
	if id != "" {
		_, _ = fmt.Fprintf(out, "Saved as %s\n", id)
	}
	return nil
}

// quotationNumber draws from Redis when configured, else from the database when saving.
// An empty number leaves the builder's draft placeholder.
func quotationNumber(ctx context.Context, cfg config.Config, store *db.DB, now time.Time) (string, error) {
	switch {
	case cfg.RedisURL != "":
		src, err := sequence.NewRedis(cfg.RedisURL)
		if err != nil {
			return "", err
		}
		defer func() { _ = src.Close() }()
		return sequence.QuotationNumber(ctx, src, now)
	case store != nil:
		return sequence.QuotationNumber(ctx, sequence.FromStore(store), now)
	}
	return "", nil
}
