package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stencilhq/stencil/internal/config"
	"github.com/stencilhq/stencil/internal/logging"
	"github.com/stencilhq/stencil/internal/services"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile every document once",
	Long: `Compile every document under the pages root into the output root and
write the build manifest. The command blocks until the pass completes and
exits nonzero if any document failed to render.

Examples:
  stencil build                   # Build with .stencil.yml settings
  stencil build --config ci.yml   # Build with an alternate config`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg)

	result, err := services.NewBuildService(cfg, logger).Build(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Built %d document(s) in %s\n", result.DocumentCount, result.Duration.Round(time.Millisecond))

	if len(result.Failures) > 0 {
		for _, failure := range result.Failures {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", failure.Document, failure.Err)
		}
		return fmt.Errorf("%d document(s) failed to render", len(result.Failures))
	}

	return nil
}

func newLogger(cfg *config.Config) logging.Logger {
	logConfig := logging.DefaultConfig()
	logConfig.Level = logging.ParseLevel(cfg.LogLevel)
	return logging.NewLogger(logConfig)
}
