package domain

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ValidFilters contains all valid filter values.
var ValidFilters = []Filter{FilterAll, FilterActive, FilterCompleted}

// IsValid checks if the filter is a known value.
func (f Filter) IsValid() bool {
	for _, v := range ValidFilters {
		if f == v {
			return true
		}
	}
	return false
}

// Match reports whether the task is visible under the filter.
// Unknown filters behave like FilterAll.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func (f Filter) String() string {
	return string(f)
}

// ParseFilter parses a filter name case-insensitively.
// An empty string yields FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid filter %q (use all, active, or completed)", s)
	}
	return f, nil
}

// RemainingText renders the remaining-task counter line.
func RemainingText(remaining int) string {
	noun := "tasks"
	if remaining == 1 {
		noun = "task"
	}
	return fmt.Sprintf("You have %d %s left.", remaining, noun)
}
