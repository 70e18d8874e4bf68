package handler

import (
	"net/http"

	"github.com/taskflow/taskflow/internal/api/request"
	"github.com/taskflow/taskflow/internal/api/response"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// CommandHandler applies tagged commands to the store.
type CommandHandler struct {
	store *taskstore.Store
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store *taskstore.Store) *CommandHandler {
	return &CommandHandler{store: store}
}

// Apply handles POST /commands. Commands naming missing tasks succeed with
// changed=false, matching the store's own semantics.
func (h *CommandHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var cmd domain.Command
	if err := request.DecodeJSON(r, &cmd); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	result, err := h.store.Apply(cmd)
	if err != nil {
		response.Error(w, domain.NewValidationError([]string{err.Error()}))
		return
	}

	response.OK(w, result)
}
