// Command symbolsmcp serves the Symbol Index & Search peripheral over
// the shared stdio framed protocol: it accepts "index_file" and "query"
// calls and answers from an embedded SQLite symbol index.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guardhook/internal/config"
	"guardhook/internal/logging"
	"guardhook/internal/mcpserver"
	"guardhook/internal/symbols"
	"guardhook/internal/workspace"
)

func main() {
	var configPath, root string
	var debug bool

	cmd := &cobra.Command{
		Use:   "symbolsmcp",
		Short: "Serve symbol index/search over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, root, debug)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to guardhook config.yaml")
	cmd.Flags().StringVar(&root, "root", ".", "workspace root")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type indexFileParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type queryParams struct {
	Pattern string `json:"pattern"`
	Limit   int    `json:"limit"`
}

func run(configPath, rootFlag string, debug bool) error {
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

	store, err := symbols.Open(root + string(os.PathSeparator) + cfg.Symbols.IndexFileName)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor := symbols.NewExtractor()
	defer extractor.Close()

	server := mcpserver.NewServer()
	server.Register("index_file", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p indexFileParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		recs, err := extractor.Extract(ctx, p.Path, []byte(p.Content))
		if err != nil {
			return nil, err
		}
		if err := store.ReplaceFile(p.Path, recs); err != nil {
			return nil, err
		}
		return map[string]int{"symbols_indexed": len(recs)}, nil
	})
	server.Register("query", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p queryParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		limit := p.Limit
		if limit == 0 {
			limit = cfg.Symbols.ResultLimit
		}
		return store.Query(p.Pattern, limit)
	})

	logging.Get(logging.CategorySymbols).Infow("serving symbol index", "root", root)
	return server.Serve(context.Background(), os.Stdin, os.Stdout)
}
