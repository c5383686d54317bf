package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/docsynth/internal/db"
	"github.com/jonathan/docsynth/internal/sequence"
	"github.com/jonathan/docsynth/internal/server"
	"github.com/jonathan/docsynth/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the engine and the provider chain.

DATABASE_URL enables document persistence and database-backed quotation numbering. REDIS_URL, when set,
takes over quotation numbering. Without either, quotations are numbered in memory.`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	orch, creds := newOrchestrator(ctx, cmd, cfg, engine)
	defer func() { _ = orch.Close() }()

	srvCfg := server.Config{
		Port:         cfg.Port,
		Engine:       engine,
		Orchestrator: orch,
		Credentials:  creds,
		LLMConfig:    cfg.LLMConfig(),
		RateLimit:    ratelimit.LoadConfig(getenv),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		srvCfg.Store = database
		srvCfg.Sequence = sequence.FromStore(database)
	} else {
		log.Printf("[serve] DATABASE_URL not set, persistence disabled")
	}

	if cfg.RedisURL != "" {
		redisSeq, err := sequence.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = redisSeq.Close() }()
		if err := redisSeq.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		srvCfg.Sequence = redisSeq
	}

	log.Printf("[serve] %d providers configured", len(orch.Providers()))

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
