package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/schemas"
	"github.com/jonathan/docsynth/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a document JSON file against its schema",
	Long:  "Validate a bare quotation, project or report JSON payload against the embedded JSON Schema for its kind.",
	RunE:  runValidate,
}

var (
	validateKind string
	validateJSON string
)

func init() {
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "", "Document kind: quotation, project or report")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON file to validate")

	_ = validateCmd.MarkFlagRequired("kind")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	kind, err := types.ParseDocumentKind(validateKind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = schemas.ValidateFile(kind, validateJSON)
	var verr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintln(out, "Validation passed")
		return nil
	case errors.As(err, &verr):
		_, _ = fmt.Fprintln(out, "Validation failed:")
		for _, fe := range verr.Errors {
			_, _ = fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s is not a valid %s", validateJSON, kind)
	default:
		return err
	}
}
