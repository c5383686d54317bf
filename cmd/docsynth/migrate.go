package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database migrations",
	Long:      "Apply all pending migrations (up) or roll back the most recent one (down) against DATABASE_URL.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(db.Up), string(db.Down)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.Verbose {
		files, err := db.MigrationFiles()
		if err != nil {
			return err
		}
		for _, f := range files {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", f)
		}
	}

	dir := db.Direction(args[0])
	if err := db.Migrate(context.Background(), cfg.DatabaseURL, dir); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", dir)
	return nil
}
