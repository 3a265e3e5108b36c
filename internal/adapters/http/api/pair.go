// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/virden/faceoff/internal/domain/model"
)

// PairDependencies defines the interface for pair selection.
type PairDependencies interface {
	CurrentPair(ctx context.Context) (PairView, error)
}

// PairHandler handles comparison pair requests.
type PairHandler struct {
	deps PairDependencies
}

// NewPairHandler creates a new pair handler.
func NewPairHandler(deps PairDependencies) *PairHandler {
	return &PairHandler{deps: deps}
}

// pairResponse mirrors the wire schema for GET /pair.
type pairResponse struct {
	Mode            string      `json:"mode"`
	Round           int         `json:"round,omitempty"`
	Completed       bool        `json:"completed,omitempty"`
	ChampionID      string      `json:"champion_id,omitempty"`
	PendingDeleteID string      `json:"pending_delete_id,omitempty"`
	A               *model.Item `json:"a,omitempty"`
	B               *model.Item `json:"b,omitempty"`
}

// HandleGetPair handles GET /pair requests.
func (h *PairHandler) HandleGetPair(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pair"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.CurrentPair(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, pairResponse{
		Mode:            view.Mode,
		Round:           view.Round,
		Completed:       view.Completed,
		ChampionID:      view.ChampionID,
		PendingDeleteID: view.PendingDeleteID,
		A:               view.A,
		B:               view.B,
	})
}
