package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the services of the pricing catalog",
	RunE:  runCatalog,
}

var catalogJSON bool

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the services as JSON")

	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	cat := engine.Catalog()

	out := cmd.OutOrStdout()
	if catalogJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cat.Services())
	}

	_, _ = fmt.Fprintf(out, "Currency %s, tax rate %.0f%%, quotations valid %d days\n\n",
		cat.Currency(), cat.TaxRate()*100, cat.ValidityDays())
	for _, svc := range cat.Services() {
		fields := make([]string, 0, len(svc.Fields()))
		for _, f := range svc.Fields() {
			fields = append(fields, string(f))
		}
		_, _ = fmt.Fprintf(out, "%s  %-24s %-45s %2d items  [%s]\n",
			svc.Code, svc.Category, svc.Name, len(svc.Items), strings.Join(fields, ", "))
	}
	return nil
}
