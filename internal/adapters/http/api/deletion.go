// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SequencerDependencies defines the interface for delete sequencer toggles.
type SequencerDependencies interface {
	ArmDeletion(ctx context.Context)
	DisarmDeletion(ctx context.Context)
	CancelDeletion(ctx context.Context) bool
}

// SequencerHandler handles delete sequencer requests.
type SequencerHandler struct {
	deps SequencerDependencies
}

// NewSequencerHandler creates a new sequencer handler.
func NewSequencerHandler(deps SequencerDependencies) *SequencerHandler {
	return &SequencerHandler{deps: deps}
}

type sequencerResponse struct {
	Armed     bool `json:"armed"`
	Cancelled bool `json:"cancelled,omitempty"`
}

// HandleArm handles POST /delete/arm requests.
func (h *SequencerHandler) HandleArm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.ArmDeletion(r.Context())
	writeJSON(w, http.StatusOK, sequencerResponse{Armed: true})
}

// HandleDisarm handles POST /delete/disarm requests. Disarming also
// cancels any deletion already counting down.
func (h *SequencerHandler) HandleDisarm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.DisarmDeletion(r.Context())
	cancelled := h.deps.CancelDeletion(r.Context())
	writeJSON(w, http.StatusOK, sequencerResponse{Armed: false, Cancelled: cancelled})
}
