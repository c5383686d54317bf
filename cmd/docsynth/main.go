// Package main provides the docsynth CLI: document generation, the provider chain and the REST API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docsynth",
	Short: "Technical document synthesis for electrical and building services",
	Long: `docsynth turns a free-text service request into a quotation, a project plan or a technical/executive report.

Documents come from a deterministic engine priced from an embedded catalog. The "ask" command and the
REST API can route requests through external text-generation providers first, falling back to the engine.

Configuration can be loaded from a JSON file using --config. Environment variables override file values,
and command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
