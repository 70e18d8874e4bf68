package taskflow

import "time"

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	host    string
	port    int
	baseURL string
	timeout time.Duration
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		host:    "localhost",
		port:    7433,
		timeout: 30 * time.Second,
	}
}

// WithHost sets the server host.
func WithHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithPort sets the server port.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) {
		c.port = port
	}
}

// WithBaseURL sets the full server URL, overriding host and port.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// ListTasksOption configures a ListTasks call.
type ListTasksOption func(*listTasksOptions)

type listTasksOptions struct {
	filter Filter
}

// WithFilter lists tasks matching filter without changing the server's active filter.
func WithFilter(filter Filter) ListTasksOption {
	return func(o *listTasksOptions) {
		o.filter = filter
	}
}
