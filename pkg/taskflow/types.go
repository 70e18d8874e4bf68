package taskflow

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Task is a single task list entry.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TaskList is the visible list plus the remaining counter.
type TaskList struct {
	Data      []Task `json:"data"`
	Filter    Filter `json:"filter"`
	Remaining int    `json:"remaining"`
	Summary   string `json:"summary"`
}

// MoveResult reports whether a move changed the order, with the full new order.
type MoveResult struct {
	Changed bool   `json:"changed"`
	Data    []Task `json:"data"`
}

// Command is a tagged task list operation for ApplyCommand.
type Command struct {
	Op       string `json:"op"`
	ID       string `json:"id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
	Text     string `json:"text,omitempty"`
	Filter   Filter `json:"filter,omitempty"`
}

// CommandResult is the outcome of an applied command.
type CommandResult struct {
	Changed bool  `json:"changed"`
	Task    *Task `json:"task,omitempty"`
	Removed int   `json:"removed,omitempty"`
}

type textRequest struct {
	Text string `json:"text"`
}

type moveRequest struct {
	Before    string `json:"before,omitempty"`
	Direction string `json:"direction,omitempty"`
}

type filterBody struct {
	Filter Filter `json:"filter"`
}

type clearResponse struct {
	Removed int `json:"removed"`
}
