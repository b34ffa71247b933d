// Package cli provides the command-line interface for the sqllineage tool.
package cli

import (
	"fmt"
	"os"

	"github.com/sqllineage/analyzer/internal/cli/commands"
	"github.com/sqllineage/analyzer/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	dialectFlag string
	cfg         *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqllineage",
		Short: "sqllineage - SQL lineage analysis",
		Long: `sqllineage parses SQL scripts and reports, per statement, which tables
and columns each output column derives from, surfacing join structure,
unresolved references, and a complexity score along the way.`,
		Version:           Version,
		PersistentPreRunE: loadConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "directory holding sqllineage.yaml or sqllineage.yml (default: .)")
	rootCmd.PersistentFlags().StringVar(&dialectFlag, "dialect", "", "SQL dialect (ansi|postgres|snowflake|bigquery)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	rootCmd.AddCommand(commands.NewAnalyzeCommand(GetConfig))
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	dir := "."
	if cfgFile != "" {
		dir = cfgFile
	}
	loaded, err := config.LoadFromDir(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// A subcommand's own --dialect flag shadows the persistent one, so read
	// whichever flag the running command actually parsed.
	if f := cmd.Flags().Lookup("dialect"); f != nil && f.Changed {
		loaded.Dialect = f.Value.String()
	}
	cfg = loaded
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig returns the config loaded by the running command's
// PersistentPreRunE, falling back to defaults if none was loaded (e.g. when
// called outside Execute).
func GetConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	c := &config.Config{}
	c.ApplyDefaults()
	return c
}
