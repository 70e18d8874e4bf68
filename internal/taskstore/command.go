package taskstore

import (
	"fmt"

	"github.com/taskflow/taskflow/internal/domain"
)

// Result reports the outcome of an applied command.
type Result struct {
	// Changed is false when the command was a silent no-op.
	Changed bool `json:"changed"`
	// Task is the created task for add commands.
	Task *domain.Task `json:"task,omitempty"`
	// Removed counts tasks removed by clear_completed.
	Removed int `json:"removed,omitempty"`
}

// Apply executes a tagged command. Blank text and unknown ids are silent
// no-ops as for the direct methods; only an unknown kind or filter name is
// an error.
func (s *Store) Apply(cmd domain.Command) (Result, error) {
	switch cmd.Kind {
	case domain.CmdAdd:
		task, ok := s.Add(cmd.Text)
		if !ok {
			return Result{}, nil
		}
		return Result{Changed: true, Task: &task}, nil
	case domain.CmdToggle:
		return Result{Changed: s.Toggle(cmd.ID)}, nil
	case domain.CmdDelete:
		return Result{Changed: s.Delete(cmd.ID)}, nil
	case domain.CmdEdit:
		return Result{Changed: s.Edit(cmd.ID, cmd.Text)}, nil
	case domain.CmdReorder:
		return Result{Changed: s.Reorder(cmd.ID, cmd.TargetID)}, nil
	case domain.CmdMoveUp:
		return Result{Changed: s.MoveUp(cmd.ID)}, nil
	case domain.CmdMoveDown:
		return Result{Changed: s.MoveDown(cmd.ID)}, nil
	case domain.CmdSetFilter:
		f, err := domain.ParseFilter(string(cmd.Filter))
		if err != nil {
			return Result{}, err
		}
		return Result{Changed: s.SetFilter(f)}, nil
	case domain.CmdClearCompleted:
		n := s.ClearCompleted()
		return Result{Changed: n > 0, Removed: n}, nil
	default:
		return Result{}, fmt.Errorf("unknown command %q", cmd.Kind)
	}
}
