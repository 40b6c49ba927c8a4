package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bricklayers/internal/domain/draft"
)

// DraftDependencies defines the interface for draft state operations.
type DraftDependencies interface {
	GetState(ctx context.Context, leagueID string) (draft.Snapshot, error)
	AddPick(ctx context.Context, leagueID, playerID string, mine bool) (draft.Snapshot, error)
	RemovePick(ctx context.Context, leagueID, playerID string) (draft.Snapshot, error)
	Reset(ctx context.Context, leagueID string) (draft.Snapshot, error)
}

// DraftHandler handles pick tracking requests.
type DraftHandler struct {
	deps DraftDependencies
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps DraftDependencies) *DraftHandler {
	return &DraftHandler{deps: deps}
}

// pickRequest is the body of POST /leagues/{league}/picks.
type pickRequest struct {
	PlayerID string `json:"player_id"`
	Mine     bool   `json:"mine"`
}

// HandleGetState handles GET /leagues/{league}/state.
func (h *DraftHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.GetState(r.Context(), r.PathValue("league"))
	if err != nil {
		writeFailure(w, "api.draft_state", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleAddPick handles POST /leagues/{league}/picks.
func (h *DraftHandler) HandleAddPick(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_pick"
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, op, WrapKind(op, ErrInvalidBody, err))
		return
	}
	st, err := h.deps.AddPick(r.Context(), r.PathValue("league"), req.PlayerID, req.Mine)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleRemovePick handles DELETE /leagues/{league}/picks/{player}.
func (h *DraftHandler) HandleRemovePick(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.RemovePick(r.Context(), r.PathValue("league"), r.PathValue("player"))
	if err != nil {
		writeFailure(w, "api.remove_pick", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleReset handles POST /leagues/{league}/reset.
func (h *DraftHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Reset(r.Context(), r.PathValue("league"))
	if err != nil {
		writeFailure(w, "api.reset_draft", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
