package api

import (
	"log"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskflow/taskflow/internal/api/handler"
	"github.com/taskflow/taskflow/internal/api/middleware"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// NewRouter creates and configures the HTTP router over store.
func NewRouter(store *taskstore.Store, logger *log.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))

	systemHandler := handler.NewSystemHandler()
	taskHandler := handler.NewTaskHandler(store)
	filterHandler := handler.NewFilterHandler(store)
	commandHandler := handler.NewCommandHandler(store)

	r.Get("/v1/health", systemHandler.Health)

	r.Route("/v1/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Post("/clear-completed", taskHandler.ClearCompleted)

		r.Get("/{id}", taskHandler.GetTask)
		r.Patch("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
		r.Post("/{id}/toggle", taskHandler.ToggleTask)
		r.Post("/{id}/move", taskHandler.MoveTask)
	})

	r.Get("/v1/filter", filterHandler.GetFilter)
	r.Put("/v1/filter", filterHandler.SetFilter)

	r.Post("/v1/commands", commandHandler.Apply)

	return r
}
