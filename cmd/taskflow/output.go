package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/taskflow/taskflow/internal/domain"
)

// listedTask is a task with its 1-based position in the printed list.
type listedTask struct {
	Number int `json:"number"`
	domain.Task
}

// listOutput is the JSON shape of "taskflow list".
type listOutput struct {
	Data      []listedTask  `json:"data"`
	Filter    domain.Filter `json:"filter"`
	Remaining int           `json:"remaining"`
	Summary   string        `json:"summary"`
}

// printTask prints a single task to the writer
func printTask(w io.Writer, task domain.Task, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(task)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Text:\t%s\n", task.Text)
	fmt.Fprintf(tw, "Status:\t%s\n", statusString(task.Completed))
	tw.Flush()
}

// printTaskList prints numbered tasks followed by the remaining counter
func printTaskList(w io.Writer, out listOutput, jsonOutput bool) {
	if jsonOutput {
		if out.Data == nil {
			out.Data = []listedTask{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return
	}

	if len(out.Data) == 0 {
		fmt.Fprintln(w, "No tasks found")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "#\tDONE\tTEXT\tID\n")
		fmt.Fprintf(tw, "-\t----\t----\t--\n")
		for _, t := range out.Data {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.Number, checkbox(t.Completed), truncate(t.Text, 50), t.ID)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\n%s\n", out.Summary)
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		body := map[string]interface{}{
			"message": err.Error(),
		}
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			body["code"] = string(domainErr.Code)
			if len(domainErr.Context) > 0 {
				body["context"] = domainErr.Context
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]interface{}{"error": body})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		if details, ok := domainErr.Context["details"].([]string); ok {
			for _, d := range details {
				fmt.Fprintf(w, "  - %s\n", d)
			}
		}
	}
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

func statusString(completed bool) string {
	if completed {
		return "completed"
	}
	return "active"
}

func checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// truncate truncates a string to the specified number of runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
