package request

import (
	"encoding/json"
	"net/http"

	"github.com/taskflow/taskflow/internal/domain"
)

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Text string `json:"text"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if !domain.ValidText(r.Text) {
		errors = append(errors, "text is required")
	}

	return errors
}

// UpdateTaskRequest represents a request to edit a task. Blank text deletes it.
type UpdateTaskRequest struct {
	Text *string `json:"text"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Text == nil {
		errors = append(errors, "text is required")
	}

	return errors
}

// Move directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// MoveTaskRequest moves a task either before another task or one visible
// step up or down. Exactly one of Before and Direction must be set.
type MoveTaskRequest struct {
	Before    string `json:"before,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Validate validates the move request.
func (r *MoveTaskRequest) Validate() []string {
	var errors []string

	switch {
	case r.Before == "" && r.Direction == "":
		errors = append(errors, "one of before or direction is required")
	case r.Before != "" && r.Direction != "":
		errors = append(errors, "before and direction are mutually exclusive")
	case r.Direction != "" && r.Direction != DirectionUp && r.Direction != DirectionDown:
		errors = append(errors, "direction must be up or down")
	}

	return errors
}

// SetFilterRequest represents a request to change the active filter.
type SetFilterRequest struct {
	Filter string `json:"filter"`
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ParseFilter extracts an optional filter override from the query string.
// It returns ok=false when no filter was given.
func ParseFilter(r *http.Request) (f domain.Filter, ok bool, err error) {
	s := r.URL.Query().Get("filter")
	if s == "" {
		return "", false, nil
	}
	f, err = domain.ParseFilter(s)
	if err != nil {
		return "", false, err
	}
	return f, true, nil
}
