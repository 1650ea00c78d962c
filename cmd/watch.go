package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/config"
	"github.com/stencilhq/stencil/internal/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for template changes and rebuild incrementally",
	Long: `Perform a full build, then watch the pages and partials roots for
changes. Bursts of edits are coalesced into a single rebuild cycle that
recompiles only the documents affected by the changed files.

Examples:
  stencil watch                   # Watch with .stencil.yml settings
  stencil watch -l debug          # Watch with per-flush debug logging`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = services.NewWatchService(cfg, newLogger(cfg)).Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nShutting down")
		return nil
	}
	return err
}
