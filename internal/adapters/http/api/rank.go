package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/bricklayers/internal/app"
	"github.com/okian/bricklayers/internal/domain/model"
)

// RankDependencies defines the interface for ranking reads.
type RankDependencies interface {
	BestAvailable(ctx context.Context, leagueID string, q Query) (Recommendation, error)
	Needs(ctx context.Context, leagueID string, live bool) (NeedsReport, error)
	ReplacementLevels() map[string]*model.PlayerRecord
}

// RankHandler handles best-available and needs requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleBest handles GET /leagues/{league}/best?pos=PG,SG&limit=N&mode=live|roster.
func (h *RankHandler) HandleBest(w http.ResponseWriter, r *http.Request) {
	const op = "api.best_available"
	q, err := parseQuery(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	rec, err := h.deps.BestAvailable(r.Context(), r.PathValue("league"), q)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleNeeds handles GET /leagues/{league}/needs?mode=live|roster.
func (h *RankHandler) HandleNeeds(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_needs"
	live, err := parseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	report, err := h.deps.Needs(r.Context(), r.PathValue("league"), live)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleReplacementLevels handles GET /replacement-levels.
func (h *RankHandler) HandleReplacementLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ReplacementLevels())
}

func parseQuery(r *http.Request) (Query, error) {
	const op = "api.parse_query"
	values := r.URL.Query()

	var q Query
	live, err := parseMode(values.Get("mode"))
	if err != nil {
		return Query{}, err
	}
	q.Live = live

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Query{}, NewKind(op, ErrBadRequest)
		}
		q.Limit = n
	}

	for _, v := range values["pos"] {
		for _, pos := range strings.Split(v, ",") {
			if pos = strings.TrimSpace(pos); pos != "" {
				q.Positions = append(q.Positions, strings.ToUpper(pos))
			}
		}
	}
	return q, nil
}

// parseMode defaults to roster mode.
func parseMode(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", service.ModeRoster:
		return false, nil
	case service.ModeLive:
		return true, nil
	default:
		return false, ErrInvalidMode
	}
}
