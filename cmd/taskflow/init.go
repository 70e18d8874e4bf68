package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Create ~/.taskflow/config.toml (or the file named by --config) with the
default storage, save, and server settings.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := initConfigPath()
		if err != nil {
			handleError(err)
		}

		if err := runInit(path); err != nil {
			handleError(err)
		}

		printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", path), jsonOutput)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func initConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if configPath != "" {
		return config.ExpandHome(configPath, homeDir), nil
	}
	return config.GlobalConfigPath(homeDir), nil
}

// runInit writes the default config to path
func runInit(path string) error {
	if _, err := os.Stat(path); err == nil {
		return &configError{err: fmt.Errorf("%s already exists", path)}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(config.DefaultFileContents()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
