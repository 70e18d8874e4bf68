package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/service"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the whole task list",
	Long: `Print every task in list order, ignoring any filter.

Formats:
  json - array of {id, text, completed} (same shape as the stored value)
  yaml - sequence of tasks
  toml - [[tasks]] array of tables`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		err := withSession(func(s *service.Session) error {
			return runExport(cmd.OutOrStdout(), s.Store().Tasks(), format)
		})
		handleError(err)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", FormatJSON, "Output format: json, yaml, or toml")
}

// tomlExport wraps the list since TOML documents must be tables.
type tomlExport struct {
	Tasks []domain.Task `toml:"tasks"`
}

func runExport(w io.Writer, tasks []domain.Task, format string) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}

	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(tomlExport{Tasks: tasks}); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
	default:
		return domain.NewValidationError([]string{
			fmt.Sprintf("unknown format %q (use json, yaml, or toml)", format),
		})
	}
	return nil
}
