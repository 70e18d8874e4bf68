package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/taskflow/taskflow/internal/api/response"
	"github.com/taskflow/taskflow/internal/domain"
)

// Recovery returns middleware that catches panics and returns a 500 error.
func Recovery(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Printf("panic recovered: %v\n%s", err, debug.Stack())
					response.Error(w, domain.NewInternalError(nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
