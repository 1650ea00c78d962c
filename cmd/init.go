package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stencilhq/stencil/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a new stencil project",
	Long: `Create a .stencil.yml with default settings plus starter pages and
partials directories with a sample document and fragment.

Examples:
  stencil init                    # Scaffold in the current directory
  stencil init --force            # Overwrite an existing .stencil.yml`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

const sampleDocument = `<!DOCTYPE html>
<html>
{# The nav fragment is shared by every page. #}
<body>
include("../partials/nav")
<main><h1>Hello from stencil</h1></main>
<script type="module" src="entry()"></script>
</body>
</html>
`

const sampleFragment = `<nav><a href="/">Home</a></nav>
`

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	configContent, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	files := map[string][]byte{
		".stencil.yml": configContent,
		filepath.Join(cfg.Site.Pages, "index.tmpl"):  []byte(sampleDocument),
		filepath.Join(cfg.Site.Partials, "nav.tmpl"): []byte(sampleFragment),
	}

	for path, content := range files {
		if !initForce {
			if _, err := os.Stat(path); err == nil {
				fmt.Printf("Skipping %s (exists, use --force to overwrite)\n", path)
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Created %s\n", path)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  stencil build    # Compile the sample site")
	fmt.Println("  stencil watch    # Rebuild on every edit")
	return nil
}
