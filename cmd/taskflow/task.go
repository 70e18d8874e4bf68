package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/service"
	"github.com/taskflow/taskflow/internal/taskstore"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task to the top of the list",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withSession(func(s *service.Session) error {
			return runAdd(cmd.OutOrStdout(), s.Store(), strings.Join(args, " "))
		})
		handleError(err)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long:  `List tasks in order, numbered for use as references, followed by the remaining count.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runList(cmd.OutOrStdout(), s.Store(), filter)
		})
		handleError(err)
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <ref>",
	Aliases: []string{"done"},
	Short:   "Toggle a task between active and completed",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runToggle(cmd.OutOrStdout(), s.Store(), args[0], filter)
		})
		handleError(err)
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <ref>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runRemove(cmd.OutOrStdout(), s.Store(), args[0], filter)
		})
		handleError(err)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <ref> <text...>",
	Short: "Change a task's text",
	Long:  `Replace the text of a task. Empty text deletes the task.`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runEdit(cmd.OutOrStdout(), s.Store(), args[0], strings.Join(args[1:], " "), filter)
		})
		handleError(err)
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <ref> <before-ref>",
	Short: "Move a task immediately before another task",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runMove(cmd.OutOrStdout(), s.Store(), args[0], args[1], filter)
		})
		handleError(err)
	},
}

var upCmd = &cobra.Command{
	Use:   "up <ref>",
	Short: "Move a task above the previous listed task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runStep(cmd.OutOrStdout(), s.Store(), args[0], filter, true)
		})
		handleError(err)
	},
}

var downCmd = &cobra.Command{
	Use:   "down <ref>",
	Short: "Move a task below the next listed task",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		err := withSession(func(s *service.Session) error {
			return runStep(cmd.OutOrStdout(), s.Store(), args[0], filter, false)
		})
		handleError(err)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all completed tasks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withSession(func(s *service.Session) error {
			return runClear(cmd.OutOrStdout(), s.Store())
		})
		handleError(err)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(clearCmd)

	listCmd.Flags().StringP("filter", "f", "all", "Show all, active, or completed tasks")
	for _, cmd := range []*cobra.Command{toggleCmd, rmCmd, editCmd, mvCmd, upCmd, downCmd} {
		cmd.Flags().StringP("filter", "f", "all", "Number references over all, active, or completed tasks")
	}
}

// parseFilterFlag parses a --filter value into a validation error on failure
func parseFilterFlag(s string) (domain.Filter, error) {
	f, err := domain.ParseFilter(s)
	if err != nil {
		return "", domain.NewValidationError([]string{err.Error()})
	}
	return f, nil
}

// resolveWithFilter parses filter and resolves ref against it
func resolveWithFilter(store *taskstore.Store, ref, filter string) (domain.Task, domain.Filter, error) {
	f, err := parseFilterFlag(filter)
	if err != nil {
		return domain.Task{}, "", err
	}
	task, err := resolveRef(store, ref, f)
	if err != nil {
		return domain.Task{}, "", err
	}
	return task, f, nil
}

func runAdd(w io.Writer, store *taskstore.Store, text string) error {
	task, ok := store.Add(text)
	if !ok {
		return domain.NewValidationError([]string{"text is required"})
	}

	printTask(w, task, jsonOutput)
	return nil
}

func runList(w io.Writer, store *taskstore.Store, filter string) error {
	f, err := parseFilterFlag(filter)
	if err != nil {
		return err
	}
	store.SetFilter(f)

	out := listOutput{
		Filter:    store.Filter(),
		Remaining: store.RemainingCount(),
		Summary:   store.Summary(),
	}
	n := 0
	for t := range store.Visible() {
		n++
		out.Data = append(out.Data, listedTask{Number: n, Task: t})
	}

	printTaskList(w, out, jsonOutput)
	return nil
}

func runToggle(w io.Writer, store *taskstore.Store, ref, filter string) error {
	task, _, err := resolveWithFilter(store, ref, filter)
	if err != nil {
		return err
	}

	if !store.Toggle(task.ID) {
		return domain.NewTaskNotFoundError(task.ID)
	}

	updated, _ := store.Get(task.ID)
	printTask(w, updated, jsonOutput)
	return nil
}

func runRemove(w io.Writer, store *taskstore.Store, ref, filter string) error {
	task, _, err := resolveWithFilter(store, ref, filter)
	if err != nil {
		return err
	}

	if !store.Delete(task.ID) {
		return domain.NewTaskNotFoundError(task.ID)
	}

	printSuccess(w, fmt.Sprintf("Deleted task %s", task.ID), jsonOutput)
	return nil
}

func runEdit(w io.Writer, store *taskstore.Store, ref, text, filter string) error {
	task, _, err := resolveWithFilter(store, ref, filter)
	if err != nil {
		return err
	}

	if !store.Edit(task.ID, text) {
		return domain.NewTaskNotFoundError(task.ID)
	}

	updated, ok := store.Get(task.ID)
	if !ok {
		printSuccess(w, fmt.Sprintf("Deleted task %s", task.ID), jsonOutput)
		return nil
	}
	printTask(w, updated, jsonOutput)
	return nil
}

func runMove(w io.Writer, store *taskstore.Store, ref, beforeRef, filter string) error {
	task, f, err := resolveWithFilter(store, ref, filter)
	if err != nil {
		return err
	}
	target, err := resolveRef(store, beforeRef, f)
	if err != nil {
		return err
	}

	if !store.Reorder(task.ID, target.ID) {
		printSuccess(w, fmt.Sprintf("Task %s is already before %s", task.ID, target.ID), jsonOutput)
		return nil
	}

	printSuccess(w, fmt.Sprintf("Moved task %s before %s", task.ID, target.ID), jsonOutput)
	return nil
}

func runStep(w io.Writer, store *taskstore.Store, ref, filter string, up bool) error {
	task, f, err := resolveWithFilter(store, ref, filter)
	if err != nil {
		return err
	}
	// Neighbours are taken from the listed tasks.
	store.SetFilter(f)

	var moved bool
	direction := "down"
	if up {
		moved = store.MoveUp(task.ID)
		direction = "up"
	} else {
		moved = store.MoveDown(task.ID)
	}
	if !moved {
		printSuccess(w, fmt.Sprintf("Task %s cannot move %s", task.ID, direction), jsonOutput)
		return nil
	}

	printSuccess(w, fmt.Sprintf("Moved task %s %s", task.ID, direction), jsonOutput)
	return nil
}

func runClear(w io.Writer, store *taskstore.Store) error {
	n := store.ClearCompleted()

	noun := "tasks"
	if n == 1 {
		noun = "task"
	}
	printSuccess(w, fmt.Sprintf("Removed %d completed %s", n, noun), jsonOutput)
	return nil
}
