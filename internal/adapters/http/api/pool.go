package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bricklayers/internal/adapters/pool"
	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/pkg/metrics"
)

const maxBodyBytes = 8 << 20

// PoolDependencies defines the interface for replacing pool and roster inputs.
type PoolDependencies interface {
	ReplacePool(ctx context.Context, p *model.Pool)
	SetRoster(ctx context.Context, leagueID string, entries []model.RosterEntry) ([]string, error)
	Roster(leagueID string) ([]model.RosterEntry, error)
}

// PoolHandler handles uploads of the candidate pool and league rosters.
type PoolHandler struct {
	deps PoolDependencies
}

// NewPoolHandler creates a new pool handler.
func NewPoolHandler(deps PoolDependencies) *PoolHandler {
	return &PoolHandler{deps: deps}
}

type poolResponse struct {
	Players int `json:"players"`
}

type rosterRequest struct {
	Players []model.RosterEntry `json:"players"`
}

type savedRosterResponse struct {
	League  string              `json:"league"`
	Players []model.RosterEntry `json:"players"`
}

type rosterResponse struct {
	League    string   `json:"league"`
	Saved     int      `json:"saved"`
	Unmatched []string `json:"unmatched"`
}

// HandlePutPool handles PUT /pool with a YAML or JSON pool document.
func (h *PoolHandler) HandlePutPool(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_pool"
	p, err := pool.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordPoolReload("api", "error")
		writeFailure(w, op, err)
		return
	}
	metrics.RecordPoolReload("api", "ok")
	h.deps.ReplacePool(r.Context(), p)
	writeJSON(w, http.StatusOK, poolResponse{Players: p.Len()})
}

// HandlePutRoster handles PUT /leagues/{league}/roster.
func (h *PoolHandler) HandlePutRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_roster"
	var req rosterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFailure(w, op, WrapKind(op, ErrInvalidBody, err))
		return
	}
	league := r.PathValue("league")
	unmatched, err := h.deps.SetRoster(r.Context(), league, req.Players)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{League: league, Saved: len(req.Players), Unmatched: unmatched})
}

// HandleGetRoster handles GET /leagues/{league}/roster.
func (h *PoolHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	league := r.PathValue("league")
	entries, err := h.deps.Roster(league)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, savedRosterResponse{League: league, Players: entries})
}
