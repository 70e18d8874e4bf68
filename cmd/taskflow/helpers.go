package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/taskflow/taskflow/internal/config"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/service"
	"github.com/taskflow/taskflow/internal/taskstore"
	"github.com/taskflow/taskflow/pkg/idgen"
)

// configError marks failures to load or resolve configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// newLogger returns the operational logger. It writes to stderr so that
// command output on stdout stays parseable.
func newLogger() *log.Logger {
	return log.New(os.Stderr, "[taskflow] ", log.LstdFlags)
}

// resolveConfig merges defaults, the config file, and global flags.
func resolveConfig() (*config.ResolvedConfig, error) {
	cfg, err := config.ResolveConfig(config.Overrides{
		ConfigPath: configPath,
		Backend:    backendName,
		DataPath:   dataPath,
	})
	if err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// withSession opens a session, runs fn, and closes the session so pending
// saves are flushed before the process exits.
func withSession(fn func(s *service.Session) error) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	s, err := service.Open(context.Background(), cfg, newLogger())
	if err != nil {
		return err
	}

	runErr := fn(s)
	if err := s.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// listed returns the tasks a 1-based reference counts over: all tasks, or
// those matching filter.
func listed(store *taskstore.Store, filter domain.Filter) []domain.Task {
	return slices.Collect(store.VisibleUnder(filter))
}

// resolveRef finds the task named by ref: a 1-based number into the listed
// order, an exact id, or a unique id prefix. The "tf-" prefix may be omitted.
func resolveRef(store *taskstore.Store, ref string, filter domain.Filter) (domain.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Task{}, domain.NewValidationError([]string{"task reference is required"})
	}

	if n, err := strconv.Atoi(ref); err == nil {
		tasks := listed(store, filter)
		if n < 1 || n > len(tasks) {
			return domain.Task{}, domain.NewTaskNotFoundError(ref)
		}
		return tasks[n-1], nil
	}

	if task, ok := store.Get(ref); ok {
		return task, nil
	}

	var matches []domain.Task
	for _, t := range store.Tasks() {
		if strings.HasPrefix(t.ID, ref) || strings.HasPrefix(strings.TrimPrefix(t.ID, idgen.Prefix+"-"), ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Task{}, domain.NewTaskNotFoundError(ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Task{}, domain.NewValidationError([]string{
			fmt.Sprintf("task reference %q is ambiguous (%d matches)", ref, len(matches)),
		})
	}
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeTaskNotFound:
			return ExitTaskNotFound
		default:
			return ExitGeneralError
		}
	}

	return ExitGeneralError
}

// handleError handles an error by printing it and exiting with the appropriate code
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	os.Exit(mapErrorToExitCode(err))
}
