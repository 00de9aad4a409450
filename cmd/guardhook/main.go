// Command guardhook is the hook entry point: it reads one
// tool-invocation request on standard input, evaluates it against the
// Guard Registry, and communicates its verdict purely through the
// process exit code (0 admit, 2 refuse, 1 internal error). Nothing is
// ever written to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guardhook/internal/config"
	"guardhook/internal/embedding"
	"guardhook/internal/guard"
	"guardhook/internal/guards"
	"guardhook/internal/interaction"
	"guardhook/internal/logging"
	"guardhook/internal/override"
	"guardhook/internal/request"
	"guardhook/internal/vectorstore"
)

func main() {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:           "guardhook",
		Short:         "Pre-execution safety gate for tool invocations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to guardhook config.yaml")
	root.PersistentFlags().BoolVar(&debug, "debug", os.Getenv("GUARDHOOK_DEBUG") == "1", "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) // internal error, distinct from a guard refusal (exit code 2)
	}
}

// run performs the full hook contract and terminates the process itself,
// since a returned error would otherwise be printed through cobra with
// formatting this hook's stdout/stderr contract doesn't allow.
func run(configPath string, debug bool) error {
	logging.Init(debug)
	defer logging.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		os.Exit(1)
	}

	req, err := request.Parse(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
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

	tty := interaction.NewTTY()
	auth := override.New(os.Getenv("GUARDHOOK_OVERRIDE_SECRET"), cfg.Override.SkewWindow, cfg.Override.AuditLog)

	registry := guard.NewRegistry(tty, auth)
	registry.SetAuditLog(cfg.Guard.AuditLog)
	guards.Register(registry, embedClient, storeClient, guards.DuplicateConfig{
		Threshold: cfg.Duplicate.Threshold,
		TopK:      cfg.Duplicate.TopK,
	})

	decision := registry.Evaluate(req)
	if decision.Message != "" {
		fmt.Fprintln(os.Stderr, decision.Message)
	}
	if decision.ShouldBlock {
		logging.Get(logging.CategoryGuard).Warnw("refused tool invocation", "guard", decision.GuardName, "tool", req.ToolName)
		os.Exit(guard.ExitRefuse)
	}

	logging.Get(logging.CategoryGuard).Debugw("admitted tool invocation", "tool", req.ToolName)
	os.Exit(guard.ExitAdmit)
	return nil
}
