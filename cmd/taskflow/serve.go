package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/server"
	"github.com/taskflow/taskflow/internal/service"
)

// BindEnv overrides the serve address when set.
const BindEnv = "TASKFLOW_BIND"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over HTTP",
	Long: `Run the JSON HTTP API in the foreground until interrupted.

The address is taken from --bind, then $TASKFLOW_BIND, then the [server]
section of the config file (default localhost:7433). Pending saves are
flushed on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bind, _ := cmd.Flags().GetString("bind")

		if err := runServe(bind); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (default from config)")
}

// resolveBind picks the listen address: flag, then environment, then config.
func resolveBind(flag string, cfg *config.ResolvedConfig) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(BindEnv); env != "" {
		return env
	}
	return cfg.Addr()
}

func runServe(bind string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	session, err := service.Open(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(resolveBind(bind, cfg), session, logger)
	serveErr := srv.ListenAndServe()

	// Shutdown already closed the session unless Start failed.
	if err := session.Close(); err != nil {
		logger.Printf("Warning: %v", err)
	}
	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	return nil
}
