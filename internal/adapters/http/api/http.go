// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/bricklayers/internal/adapters/pool"
	service "github.com/okian/bricklayers/internal/app"
	"github.com/okian/bricklayers/internal/domain/draft"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RankDependencies
	DraftDependencies
	PoolDependencies
	StatsProvider
}

// Query, Recommendation and NeedsReport mirror the read shapes of the service.
type (
	Query          = service.Query
	Recommendation = service.Recommendation
	NeedsReport    = service.NeedsReport
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	rankHandler   *RankHandler
	draftHandler  *DraftHandler
	poolHandler   *PoolHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		rankHandler:   NewRankHandler(deps),
		draftHandler:  NewDraftHandler(deps),
		poolHandler:   NewPoolHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /pool", MetricsMiddleware(s.poolHandler.HandlePutPool, "pool"))
	mux.HandleFunc("GET /replacement-levels", MetricsMiddleware(s.rankHandler.HandleReplacementLevels, "replacement_levels"))

	mux.HandleFunc("GET /leagues/{league}/best", MetricsMiddleware(s.rankHandler.HandleBest, "best"))
	mux.HandleFunc("GET /leagues/{league}/needs", MetricsMiddleware(s.rankHandler.HandleNeeds, "needs"))
	mux.HandleFunc("PUT /leagues/{league}/roster", MetricsMiddleware(s.poolHandler.HandlePutRoster, "roster"))
	mux.HandleFunc("GET /leagues/{league}/roster", MetricsMiddleware(s.poolHandler.HandleGetRoster, "roster"))
	mux.HandleFunc("GET /leagues/{league}/state", MetricsMiddleware(s.draftHandler.HandleGetState, "state"))
	mux.HandleFunc("POST /leagues/{league}/picks", MetricsMiddleware(s.draftHandler.HandleAddPick, "picks"))
	mux.HandleFunc("DELETE /leagues/{league}/picks/{player}", MetricsMiddleware(s.draftHandler.HandleRemovePick, "picks"))
	mux.HandleFunc("POST /leagues/{league}/reset", MetricsMiddleware(s.draftHandler.HandleReset, "reset"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing the status, so a value that cannot be
// encoded turns into a 500 envelope instead of an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: "internal_error", Message: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a service or decode error onto an HTTP status.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidMode),
		errors.Is(err, draft.ErrInvalidLeague),
		errors.Is(err, draft.ErrInvalidPlayer):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, pool.ErrDecode),
		errors.Is(err, pool.ErrNoPlayers),
		errors.Is(err, pool.ErrInvalidShape):
		writeError(w, http.StatusUnprocessableEntity, "invalid_pool", Wrap(op, err))
	case errors.Is(err, draft.ErrStore):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

var _ Dependencies = (*service.Service)(nil)
