// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/virden/faceoff/internal/domain/model"
)

// TransferDependencies defines the interface for whole-state interchange.
type TransferDependencies interface {
	Export(ctx context.Context) model.Export
	Import(ctx context.Context, payload model.Export) error
}

// TransferHandler handles export and import requests.
type TransferHandler struct {
	deps TransferDependencies
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(deps TransferDependencies) *TransferHandler {
	return &TransferHandler{deps: deps}
}

type importResponse struct {
	Status string `json:"status"`
	Items  int    `json:"items"`
}

// HandleExport handles GET /export requests.
func (h *TransferHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Export(r.Context()))
}

// HandleImport handles POST /import requests. The payload replaces all
// engine state wholesale; a rejected payload leaves it untouched.
func (h *TransferHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_import"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var payload model.Export
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.Import(r.Context(), payload); err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Status: "imported", Items: len(payload.Items)})
}
