// Package cli provides the command-line interface.
package cli

import (
	"os"
	"path/filepath"

	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mkilpat/sqlmesh/internal/config"
	"github.com/mkilpat/sqlmesh/internal/loader"
)

var (
	projectDir string
	verbose    bool
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlmesh",
		Short: "Model metadata validation and schedule derivation",
		Long: `sqlmesh loads declarative model definitions (SQL files with a MODEL
block, or YAML mappings), validates them into immutable metadata records,
and derives each model's canonical execution cadence from its cron.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "project directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newScheduleCmd())
	return rootCmd
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadProject loads the project config and every model under it.
func loadProject() ([]*loader.LoadedModel, error) {
	cfg, err := config.LoadFromDir(projectDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.ProjectConfig{}
		cfg.ApplyDefaults()
	}

	l := loader.New(cfg.ModelDefaults, newLogger())
	return l.LoadDir(filepath.Join(projectDir, cfg.ModelsDir))
}
