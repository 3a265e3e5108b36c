// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/virden/faceoff/internal/app"
	"github.com/virden/faceoff/internal/domain/selector"
	"github.com/virden/faceoff/internal/domain/tournament"
)

// View shapes returned by read endpoints, re-exported so handler
// consumers do not reach into the service package directly.
type (
	PairView       = service.PairView
	VerdictOutcome = service.VerdictOutcome
	TournamentView = service.TournamentView
	RankedItem     = service.RankedItem
	Progress       = service.Progress
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ItemsDependencies
	PairDependencies
	VerdictDependencies
	UndoDependencies
	SequencerDependencies
	TournamentDependencies
	ResetDependencies
	ProgressDependencies
	TransferDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	itemsHandler      *ItemsHandler
	pairHandler       *PairHandler
	verdictHandler    *VerdictHandler
	undoHandler       *UndoHandler
	sequencerHandler  *SequencerHandler
	tournamentHandler *TournamentHandler
	resetHandler      *ResetHandler
	progressHandler   *ProgressHandler
	transferHandler   *TransferHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		itemsHandler:      NewItemsHandler(deps, maxLimit),
		pairHandler:       NewPairHandler(deps),
		verdictHandler:    NewVerdictHandler(deps),
		undoHandler:       NewUndoHandler(deps),
		sequencerHandler:  NewSequencerHandler(deps),
		tournamentHandler: NewTournamentHandler(deps),
		resetHandler:      NewResetHandler(deps),
		progressHandler:   NewProgressHandler(deps),
		transferHandler:   NewTransferHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/pair", MetricsMiddleware(s.pairHandler.HandleGetPair, "pair"))
	mux.HandleFunc("/verdict", MetricsMiddleware(s.verdictHandler.HandlePostVerdict, "verdict"))
	mux.HandleFunc("/undo", MetricsMiddleware(s.undoHandler.HandlePostUndo, "undo"))
	mux.HandleFunc("/items", MetricsMiddleware(s.itemsHandler.HandleItems, "items"))
	mux.HandleFunc("/items/", MetricsMiddleware(s.itemsHandler.HandleItem, "item"))
	mux.HandleFunc("/delete/arm", MetricsMiddleware(s.sequencerHandler.HandleArm, "delete_arm"))
	mux.HandleFunc("/delete/disarm", MetricsMiddleware(s.sequencerHandler.HandleDisarm, "delete_disarm"))
	mux.HandleFunc("/tournament", MetricsMiddleware(s.tournamentHandler.HandleTournament, "tournament"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.resetHandler.HandleReset, "reset"))
	mux.HandleFunc("/progress", MetricsMiddleware(s.progressHandler.HandleProgress, "progress"))
	mux.HandleFunc("/export", MetricsMiddleware(s.transferHandler.HandleExport, "export"))
	mux.HandleFunc("/import", MetricsMiddleware(s.transferHandler.HandleImport, "import"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorStatus translates engine errors into HTTP status codes and
// machine-readable error codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid_payload"
	case errors.Is(err, service.ErrUnknownItem):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrTournamentActive):
		return http.StatusConflict, "tournament_active"
	case errors.Is(err, selector.ErrInsufficientItems),
		errors.Is(err, tournament.ErrInsufficientParticipants):
		return http.StatusConflict, "insufficient_items"
	case errors.Is(err, tournament.ErrNoPendingMatch),
		errors.Is(err, tournament.ErrMatchMismatch):
		return http.StatusConflict, "match_mismatch"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_started"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeServiceError maps an engine error onto the wire and tags it
// with the operation that surfaced it.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code := errorStatus(err)
	writeError(w, status, code, Wrap(op, err))
}
