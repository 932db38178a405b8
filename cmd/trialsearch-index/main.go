// Trialsearch-index provisions the clinical-trials Elasticsearch index
// and bulk-loads trial documents.
//
// Usage:
//
//	# Create the index (drops an existing one with --recreate)
//	trialsearch-index [--recreate] create
//
//	# Bulk-load a JSON array of trial documents
//	trialsearch-index ingest clinical_trials.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
	"github.com/fyrsmithlabs/trialsearchd/internal/index"
	"github.com/fyrsmithlabs/trialsearchd/internal/logging"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	recreate := flag.Bool("recreate", false, "drop and recreate an existing index")
	flag.Parse()

	if err := run(*configPath, *recreate, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, recreate bool, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := search.NewClient(cfg.Elasticsearch)
	if err != nil {
		return fmt.Errorf("creating elasticsearch client: %w", err)
	}
	prov := index.NewProvisioner(client.Raw(), cfg.Elasticsearch.Index, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch args[0] {
	case "create":
		return prov.Create(ctx, recreate)
	case "ingest":
		if len(args) < 2 {
			return fmt.Errorf("ingest requires a path to a JSON documents file")
		}
		return ingest(ctx, prov, logger, args[1])
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func ingest(ctx context.Context, prov *index.Provisioner, logger *zap.Logger, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	indexed, failed, err := prov.Ingest(ctx, f)
	if err != nil {
		return err
	}

	logger.Info("ingest complete", zap.Int64("indexed", indexed), zap.Int64("failed", failed))
	if failed > 0 {
		return fmt.Errorf("%d documents failed to index", failed)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  trialsearch-index [--config FILE] [--recreate] create\n")
	fmt.Fprintf(os.Stderr, "  trialsearch-index [--config FILE] ingest FILE\n")
}
