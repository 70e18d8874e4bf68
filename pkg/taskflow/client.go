package taskflow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client is an HTTP client for the TaskFlow API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new TaskFlow API client.
//
// Options:
//   - WithHost: sets the server host (default: localhost)
//   - WithPort: sets the server port (default: 7433)
//   - WithBaseURL: sets the full server URL
//   - WithTimeout: sets the HTTP client timeout (default: 30s)
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		if cfg.port < 1 || cfg.port > 65535 {
			return nil, fmt.Errorf("invalid port %d", cfg.port)
		}
		baseURL = fmt.Sprintf("http://%s:%d", cfg.host, cfg.port)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: cfg.timeout,
		},
	}, nil
}

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/v1/health", nil, http.StatusOK, nil)
	if err != nil && !IsServerNotRunning(err) {
		return fmt.Errorf("%w: %v", ErrServerUnhealthy, err)
	}
	return err
}

// ListTasks returns the visible tasks and the remaining counter.
func (c *Client) ListTasks(ctx context.Context, opts ...ListTasksOption) (*TaskList, error) {
	var options listTasksOptions
	for _, opt := range opts {
		opt(&options)
	}

	path := "/v1/tasks"
	if options.filter != "" {
		path += "?" + url.Values{"filter": {string(options.filter)}}.Encode()
	}

	var list TaskList
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateTask adds a task to the top of the list.
func (c *Client) CreateTask(ctx context.Context, text string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", textRequest{Text: text}, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// EditTask replaces a task's text. Blank text deletes the task, in which
// case the returned task is nil.
func (c *Client) EditTask(ctx context.Context, id, text string) (*Task, error) {
	if strings.TrimSpace(text) == "" {
		err := c.do(ctx, http.MethodPatch, taskPath(id), textRequest{Text: text}, http.StatusNoContent, nil)
		return nil, err
	}

	var task Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), textRequest{Text: text}, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, http.StatusNoContent, nil)
}

// ToggleTask flips a task between active and completed.
func (c *Client) ToggleTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, taskPath(id)+"/toggle", nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// MoveBefore moves a task immediately before another task.
func (c *Client) MoveBefore(ctx context.Context, id, beforeID string) (*MoveResult, error) {
	return c.move(ctx, id, moveRequest{Before: beforeID})
}

// MoveUp moves a task above its previous visible neighbour.
func (c *Client) MoveUp(ctx context.Context, id string) (*MoveResult, error) {
	return c.move(ctx, id, moveRequest{Direction: "up"})
}

// MoveDown moves a task below its next visible neighbour.
func (c *Client) MoveDown(ctx context.Context, id string) (*MoveResult, error) {
	return c.move(ctx, id, moveRequest{Direction: "down"})
}

func (c *Client) move(ctx context.Context, id string, body moveRequest) (*MoveResult, error) {
	var result MoveResult
	if err := c.do(ctx, http.MethodPost, taskPath(id)+"/move", body, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClearCompleted removes completed tasks and returns how many were removed.
func (c *Client) ClearCompleted(ctx context.Context) (int, error) {
	var resp clearResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tasks/clear-completed", nil, http.StatusOK, &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

// GetFilter returns the server's active filter.
func (c *Client) GetFilter(ctx context.Context) (Filter, error) {
	var body filterBody
	if err := c.do(ctx, http.MethodGet, "/v1/filter", nil, http.StatusOK, &body); err != nil {
		return "", err
	}
	return body.Filter, nil
}

// SetFilter changes the server's active filter.
func (c *Client) SetFilter(ctx context.Context, filter Filter) (Filter, error) {
	var body filterBody
	if err := c.do(ctx, http.MethodPut, "/v1/filter", filterBody{Filter: filter}, http.StatusOK, &body); err != nil {
		return "", err
	}
	return body.Filter, nil
}

// ApplyCommand sends a tagged command. Commands naming missing tasks
// succeed with Changed false.
func (c *Client) ApplyCommand(ctx context.Context, cmd Command) (*CommandResult, error) {
	var result CommandResult
	if err := c.do(ctx, http.MethodPost, "/v1/commands", cmd, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func taskPath(id string) string {
	return "/v1/tasks/" + url.PathEscape(id)
}
