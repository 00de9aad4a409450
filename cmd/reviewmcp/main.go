// Command reviewmcp serves the Code-Review Orchestrator peripheral over
// the shared stdio framed protocol: it accepts "review" calls carrying
// a diff, sends it to the configured generative backend, and tracks
// cumulative cost per workspace.
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
	"guardhook/internal/review"
	"guardhook/internal/workspace"
)

func main() {
	var configPath, root, apiKey string
	var debug bool

	cmd := &cobra.Command{
		Use:   "reviewmcp",
		Short: "Serve code-review orchestration over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, root, apiKey, debug)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to guardhook config.yaml")
	cmd.Flags().StringVar(&root, "root", ".", "workspace root")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("GUARDHOOK_REVIEW_API_KEY"), "generative backend API key")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type reviewParams struct {
	Changes []review.FileChange `json:"changes"`
}

func run(configPath, rootFlag, apiKey string, debug bool) error {
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

	client := review.NewGenerativeClient(review.Config{
		APIKey:  apiKey,
		BaseURL: cfg.Review.APIURL,
		Model:   cfg.Review.Model,
	})
	tracker, err := review.NewTracker(root)
	if err != nil {
		return err
	}

	server := mcpserver.NewServer()
	server.Register("review", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p reviewParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		prompt := review.AssemblePrompt(p.Changes, cfg.Review.MaxFileBytes)
		result, err := client.Review(ctx, prompt)
		if err != nil {
			return nil, err
		}
		tracker.Record(cfg.Review.Model, result.PromptTokens, result.CompletionTokens)
		return map[string]interface{}{
			"review":      result.Review,
			"total_usd":   tracker.TotalUSD(),
		}, nil
	})

	logging.Get(logging.CategoryReview).Infow("serving code review", "root", root)
	return server.Serve(context.Background(), os.Stdin, os.Stdout)
}
