// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/virden/faceoff/internal/domain/model"
)

// VerdictDependencies defines the interface for verdict processing.
type VerdictDependencies interface {
	Verdict(ctx context.Context, winnerID, loserID string) (VerdictOutcome, error)
}

// VerdictHandler handles verdict requests.
type VerdictHandler struct {
	deps VerdictDependencies
}

// NewVerdictHandler creates a new verdict handler.
func NewVerdictHandler(deps VerdictDependencies) *VerdictHandler {
	return &VerdictHandler{deps: deps}
}

type verdictResponse struct {
	Status   string      `json:"status"`
	Mode     string      `json:"mode,omitempty"`
	TargetID string      `json:"target_id,omitempty"`
	DelayMS  int64       `json:"delay_ms,omitempty"`
	Winner   *model.Item `json:"winner,omitempty"`
	Loser    *model.Item `json:"loser,omitempty"`
}

// HandlePostVerdict handles POST /verdict requests. While the delete
// sequencer is armed the response reports a scheduled deletion rather
// than a rating change.
func (h *VerdictHandler) HandlePostVerdict(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_verdict"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Verdict
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	outcome, err := h.deps.Verdict(r.Context(), req.WinnerID, req.LoserID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	if outcome.DeletionScheduled {
		writeJSON(w, http.StatusAccepted, verdictResponse{
			Status:   "deletion_scheduled",
			TargetID: outcome.TargetID,
			DelayMS:  outcome.Delay.Milliseconds(),
		})
		return
	}
	writeJSON(w, http.StatusOK, verdictResponse{
		Status: "applied",
		Mode:   outcome.Mode,
		Winner: &outcome.Winner,
		Loser:  &outcome.Loser,
	})
}
