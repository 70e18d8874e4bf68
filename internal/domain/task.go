package domain

import (
	"strings"

	"github.com/taskflow/taskflow/pkg/idgen"
)

// Task represents a single entry in the task list.
type Task struct {
	ID        string `json:"id" yaml:"id" toml:"id"`
	Text      string `json:"text" yaml:"text" toml:"text"`
	Completed bool   `json:"completed" yaml:"completed" toml:"completed"`
}

// NewTask creates an active task with a fresh ID.
// The text is trimmed; callers are expected to reject empty text first.
func NewTask(text string) Task {
	return Task{
		ID:   idgen.MustGenerate(),
		Text: NormalizeText(text),
	}
}

// NormalizeText trims surrounding whitespace from task text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// ValidText reports whether text is non-empty once trimmed.
func ValidText(text string) bool {
	return NormalizeText(text) != ""
}

// Valid checks the invariants a stored task must satisfy.
func (t Task) Valid() bool {
	return t.ID != "" && ValidText(t.Text)
}
