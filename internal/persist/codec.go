package persist

import (
	"encoding/json"
	"fmt"

	"github.com/taskflow/taskflow/internal/domain"
)

// Encode serializes the collection as a JSON array in list order.
func Encode(tasks []domain.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a stored JSON array. Any entry breaking the task invariants
// (missing id, blank text, duplicate id) rejects the whole value.
func Decode(data []byte) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	seen := make(map[string]bool, len(tasks))
	for i, t := range tasks {
		if !t.Valid() {
			return nil, fmt.Errorf("invalid task at index %d", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = true
	}
	return tasks, nil
}
