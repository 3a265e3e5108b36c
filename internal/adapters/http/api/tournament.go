// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// TournamentDependencies defines the interface for tournament control.
type TournamentDependencies interface {
	StartTournament(ctx context.Context) (TournamentView, error)
	Tournament(ctx context.Context) TournamentView
	ResetTournament(ctx context.Context)
}

// TournamentHandler handles tournament requests.
type TournamentHandler struct {
	deps TournamentDependencies
}

// NewTournamentHandler creates a new tournament handler.
func NewTournamentHandler(deps TournamentDependencies) *TournamentHandler {
	return &TournamentHandler{deps: deps}
}

// HandleTournament handles POST, GET, and DELETE /tournament requests.
// POST starts a fresh bracket, discarding a running one. DELETE resets
// back to casual pair selection.
func (h *TournamentHandler) HandleTournament(w http.ResponseWriter, r *http.Request) {
	const op = "api.tournament"
	switch r.Method {
	case http.MethodPost:
		view, err := h.deps.StartTournament(r.Context())
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Tournament(r.Context()))
	case http.MethodDelete:
		h.deps.ResetTournament(r.Context())
		writeJSON(w, http.StatusOK, h.deps.Tournament(r.Context()))
	default:
		http.NotFound(w, r)
	}
}
