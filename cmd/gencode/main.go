// Command gencode runs the code generation gateway and talks to it.
//
//	gencode serve          run the HTTP gateway
//	gencode generate       stream a generation to the terminal
//	gencode models         list the model catalogue
//	gencode mock-upstream  run a deterministic stand-in for the provider APIs
//
// Server configuration is read from a YAML file, a .env file and the
// environment; see package config.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("gencode failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gencode",
		Short:         "Streaming code generation gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newModelsCmd(),
		newMockUpstreamCmd(),
	)
	return root
}
