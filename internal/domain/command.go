package domain

// CommandKind names a task-list operation.
type CommandKind string

const (
	CmdAdd            CommandKind = "add"
	CmdToggle         CommandKind = "toggle"
	CmdDelete         CommandKind = "delete"
	CmdEdit           CommandKind = "edit"
	CmdReorder        CommandKind = "reorder"
	CmdMoveUp         CommandKind = "move_up"
	CmdMoveDown       CommandKind = "move_down"
	CmdSetFilter      CommandKind = "set_filter"
	CmdClearCompleted CommandKind = "clear_completed"
)

// Command is a tagged operation on the task list. Only the fields that the
// kind needs are read: Text for add and edit, ID for the single-task
// operations, ID and TargetID for reorder, Filter for set_filter.
type Command struct {
	Kind     CommandKind `json:"op"`
	ID       string      `json:"id,omitempty"`
	TargetID string      `json:"target_id,omitempty"`
	Text     string      `json:"text,omitempty"`
	Filter   Filter      `json:"filter,omitempty"`
}

// Add returns an add command.
func Add(text string) Command { return Command{Kind: CmdAdd, Text: text} }

// Toggle returns a toggle command.
func Toggle(id string) Command { return Command{Kind: CmdToggle, ID: id} }

// Delete returns a delete command.
func Delete(id string) Command { return Command{Kind: CmdDelete, ID: id} }

// Edit returns an edit command.
func Edit(id, text string) Command { return Command{Kind: CmdEdit, ID: id, Text: text} }

// Reorder returns a command moving id immediately before targetID.
func Reorder(id, targetID string) Command {
	return Command{Kind: CmdReorder, ID: id, TargetID: targetID}
}

// MoveUp returns a command moving id up past its previous visible neighbour.
func MoveUp(id string) Command { return Command{Kind: CmdMoveUp, ID: id} }

// MoveDown returns a command moving id down past its next visible neighbour.
func MoveDown(id string) Command { return Command{Kind: CmdMoveDown, ID: id} }

// SetFilter returns a filter change command.
func SetFilter(f Filter) Command { return Command{Kind: CmdSetFilter, Filter: f} }

// ClearCompleted returns a clear-completed command.
func ClearCompleted() Command { return Command{Kind: CmdClearCompleted} }
