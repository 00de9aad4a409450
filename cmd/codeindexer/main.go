// Command codeindexer runs the File Indexer as a standalone process: one
// full scan at startup, then either exit (one-shot mode) or keep
// watching the tree for changes until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"guardhook/internal/config"
	"guardhook/internal/embedding"
	"guardhook/internal/indexer"
	"guardhook/internal/logging"
	"guardhook/internal/vectorstore"
	"guardhook/internal/workspace"
)

func main() {
	var configPath, root string
	var watch, debug bool

	cmd := &cobra.Command{
		Use:   "codeindexer",
		Short: "Index a workspace into the duplicate-prevention vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, root, watch, debug)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to guardhook config.yaml")
	cmd.Flags().StringVar(&root, "root", ".", "workspace root to index")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching for changes after the initial scan")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, rootFlag string, watch, debug bool) error {
	logging.Init(debug)
	defer logging.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	root, err := workspace.Root(rootFlag)
	if err != nil {
		return err
	}

	embedClient := embedding.NewHTTPClient(embedding.Config{
		Endpoint: cfg.Embedding.ServiceURL,
		Timeout:  cfg.Embedding.Timeout,
		Dims:     cfg.VectorStore.Dimension,
	})
	storeClient := vectorstore.NewHTTPClient(vectorstore.Config{
		Endpoint: cfg.VectorStore.ServiceURL,
		Timeout:  cfg.VectorStore.Timeout,
	})

	ix := indexer.New(root, embedClient, storeClient, indexer.Config{
		RescanInterval: cfg.Indexer.RescanInterval,
		DebounceWindow: cfg.Indexer.DebounceWindow,
		MaxWorkers:     int64(cfg.Indexer.MaxWorkers),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logging.Get(logging.CategoryIndexer).Infow("starting full scan", "root", root)
	if err := ix.FullScan(ctx); err != nil {
		return fmt.Errorf("full scan: %w", err)
	}

	if !watch {
		return nil
	}

	health := indexer.NewHealthServer(cfg.Indexer.HealthAddr)
	health.RecordScan(time.Now())
	health.Start()
	defer health.Close()

	if err := ix.Watch(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	logging.Get(logging.CategoryIndexer).Infow("watching for changes", "root", root, "health_addr", cfg.Indexer.HealthAddr)

	<-ctx.Done()
	ix.Stop()
	return nil
}
