package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow task list",
	Long: `A local task list with add, toggle, edit, reorder, and filter.

Tasks are kept in a local store (SQLite by default) and saved shortly after
every change. Tasks can be referenced by their number in "taskflow list",
by id, or by a unique id prefix.`,
	SilenceUsage: true,
}

// Global flags
var (
	jsonOutput  bool
	configPath  string
	backendName string
	dataPath    string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.taskflow/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Storage backend: sqlite, file, or memory")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Database or data file path")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(mapErrorToExitCode(err))
	}
}
