package domain

import "fmt"

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeTaskNotFound     ErrorCode = "TASK_NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error at a presentation boundary with context.
// The task store itself never returns these; the CLI and HTTP API raise them
// when a caller names a task that does not exist or sends unusable input.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewTaskNotFoundError reports a reference to a task that is not in the list.
func NewTaskNotFoundError(taskID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTaskNotFound,
		Message: fmt.Sprintf("No task %s in the list", taskID),
		Context: map[string]interface{}{"id": taskID},
	}
}

// NewValidationError reports unusable input. details holds one line per
// problem, for example "text is required".
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Task list change rejected",
		Context: map[string]interface{}{"details": details},
	}
}

// NewInternalError hides err from callers; the message is a fixed string.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "Task list unavailable",
		Context: map[string]interface{}{},
	}
}
