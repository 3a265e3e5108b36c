// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/virden/faceoff/internal/domain/model"
)

// ItemsDependencies defines the interface for item collection operations.
type ItemsDependencies interface {
	// Ingest admits a batch of submissions, deduplicating by source.
	// It reports how many were accepted and how many were duplicates.
	Ingest(ctx context.Context, submissions []model.Submission) (int, int, error)

	Leaderboard(ctx context.Context, limit int) []RankedItem
	Item(ctx context.Context, id string) (RankedItem, error)
	RequestDeletion(ctx context.Context, id string) (time.Duration, error)
}

// ItemsHandler handles the items resource.
type ItemsHandler struct {
	deps     ItemsDependencies
	maxLimit int
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemsDependencies, maxLimit int) *ItemsHandler {
	return &ItemsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// ingestRequest mirrors the wire schema for POST /items.
type ingestRequest struct {
	Items []model.Submission `json:"items"`
}

type ingestResponse struct {
	Status     string `json:"status"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
}

type deleteResponse struct {
	Status  string `json:"status"`
	ID      string `json:"id"`
	DelayMS int64  `json:"delay_ms"`
}

// HandleItems handles POST /items and GET /items?limit=N requests.
func (h *ItemsHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.ingest(w, r)
	case http.MethodGet:
		h.leaderboard(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleItem handles GET /items/{id} and DELETE /items/{id} requests.
func (h *ItemsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.item"
	// Extract path parameter after /items/
	id := strings.TrimPrefix(r.URL.Path, "/items/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.remove(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *ItemsHandler) ingest(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_items"
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	accepted, duplicates, err := h.deps.Ingest(r.Context(), req.Items)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	// A batch of nothing but repeats is acknowledged without work.
	status := http.StatusAccepted
	label := "accepted"
	if accepted == 0 {
		status = http.StatusOK
		label = "duplicate"
	}
	writeJSON(w, status, ingestResponse{Status: label, Accepted: accepted, Duplicates: duplicates})
}

func (h *ItemsHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_items"
	limit := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.Leaderboard(r.Context(), limit))
}

func (h *ItemsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_item"
	entry, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *ItemsHandler) remove(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_item"
	delay, err := h.deps.RequestDeletion(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, deleteResponse{
		Status:  "scheduled",
		ID:      id,
		DelayMS: delay.Milliseconds(),
	})
}
