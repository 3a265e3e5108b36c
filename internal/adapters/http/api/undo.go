// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// UndoDependencies defines the interface for history rollback.
type UndoDependencies interface {
	Undo(ctx context.Context) (bool, error)
}

// UndoHandler handles undo requests.
type UndoHandler struct {
	deps UndoDependencies
}

// NewUndoHandler creates a new undo handler.
func NewUndoHandler(deps UndoDependencies) *UndoHandler {
	return &UndoHandler{deps: deps}
}

type undoResponse struct {
	Undone bool `json:"undone"`
}

// HandlePostUndo handles POST /undo requests. An empty history is not
// an error; the response simply reports that nothing was undone.
func (h *UndoHandler) HandlePostUndo(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_undo"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	undone, err := h.deps.Undo(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, undoResponse{Undone: undone})
}
