// Package cmd provides the command-line interface for stencil.
//
// Configuration is layered, highest priority first: command-line flags, the
// STENCIL_CONFIG_FILE environment variable, individual STENCIL_* environment
// variables, and finally .stencil.yml in the current directory.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "A static-site build tool with incremental rebuilds",
	Long: `Stencil compiles a tree of template documents into HTML and keeps the
output consistent under rapid incremental edits.

Documents live under the pages root and each produce one output file.
Fragments live under the partials root and are spliced into documents with
include("ref") directives. During development, stencil watches both roots,
tracks the inclusion dependency graph, and recompiles only the documents
affected by each change.

Quick Start:
  stencil init                    Scaffold a new project
  stencil build                   Compile every document once
  stencil watch                   Watch and rebuild incrementally`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .stencil.yml, can also use STENCIL_CONFIG_FILE env var)")
	var logLevel string
	rootCmd.PersistentFlags().VarP(
		newEnumValue(&logLevel, "info", "debug", "info", "warn", "error"),
		"log-level", "l", "log level (debug, info, warn, error)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("STENCIL_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stencil")
	}

	viper.SetEnvPrefix("STENCIL")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files degrade to defaults rather than
	// failing startup.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
