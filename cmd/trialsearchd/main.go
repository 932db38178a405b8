// Trialsearchd is a clinical-trial search daemon.
//
// It interprets natural-language queries with an LLM, compiles them into
// Elasticsearch queries, and serves results, suggestions, and summaries
// over an HTTP API.
//
// Configuration is loaded from a YAML file and environment variables. See
// internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	trialsearchd
//
//	# Configure via flags and environment
//	SERVER_PORT=9090 trialsearchd --config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
	httpserver "github.com/fyrsmithlabs/trialsearchd/internal/http"
	"github.com/fyrsmithlabs/trialsearchd/internal/interpreter"
	"github.com/fyrsmithlabs/trialsearchd/internal/llm"
	"github.com/fyrsmithlabs/trialsearchd/internal/logging"
	"github.com/fyrsmithlabs/trialsearchd/internal/registry"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
	"github.com/fyrsmithlabs/trialsearchd/internal/suggest"
	"github.com/fyrsmithlabs/trialsearchd/internal/summary"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  trialsearchd           Start the search daemon\n")
			fmt.Fprintf(os.Stderr, "  trialsearchd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("trialsearchd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the daemon and blocks until the context is cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize logger
//  3. Connect to Elasticsearch
//  4. Create the LLM client and registry
//  5. Wire interpreter, search, suggestion, and summary services
//  6. Start the HTTP server and wait for shutdown
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting trialsearchd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.String("elasticsearch_url", cfg.Elasticsearch.URL),
		zap.String("index", cfg.Elasticsearch.Index))

	esClient, err := search.NewClient(cfg.Elasticsearch)
	if err != nil {
		return fmt.Errorf("creating elasticsearch client: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := esClient.Ping(pingCtx); err != nil {
		logger.Warn("Elasticsearch not reachable at startup, continuing anyway", zap.Error(err))
	}
	cancelPing()

	completer := llm.NewClient(cfg.Anthropic)
	if !completer.Available() {
		logger.Warn("No Anthropic API key configured, query interpretation will be degraded")
	}

	reg := registry.New()
	interp := interpreter.New(completer, reg, logger)
	searchSvc := search.NewService(esClient, cfg.Elasticsearch.Index, logger)
	suggestSvc := suggest.NewService(esClient, cfg.Elasticsearch.Index, logger)
	summarySvc := summary.NewService(completer, logger)

	srv, err := httpserver.NewServer(
		cfg.Server,
		cfg.Elasticsearch.URL,
		logger,
		interp,
		searchSvc,
		suggestSvc,
		summarySvc,
		esClient,
	)
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
