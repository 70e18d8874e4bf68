package handler

import (
	"net/http"

	"github.com/taskflow/taskflow/internal/api/request"
	"github.com/taskflow/taskflow/internal/api/response"
	"github.com/taskflow/taskflow/internal/domain"
	"github.com/taskflow/taskflow/internal/taskstore"
)

// FilterHandler reads and changes the active filter.
type FilterHandler struct {
	store *taskstore.Store
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(store *taskstore.Store) *FilterHandler {
	return &FilterHandler{store: store}
}

// GetFilter handles GET /filter.
func (h *FilterHandler) GetFilter(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.FilterState{Filter: h.store.Filter()})
}

// SetFilter handles PUT /filter.
func (h *FilterHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req request.SetFilterRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	f, err := domain.ParseFilter(req.Filter)
	if err != nil {
		response.Error(w, domain.NewValidationError([]string{err.Error()}))
		return
	}

	h.store.SetFilter(f)
	response.OK(w, response.FilterState{Filter: h.store.Filter()})
}
