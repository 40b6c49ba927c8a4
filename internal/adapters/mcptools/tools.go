// Package mcptools exposes the draft assistant as Model Context Protocol tools
// so an agent can ask for recommendations and record picks during a draft.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	service "github.com/okian/bricklayers/internal/app"
	"github.com/okian/bricklayers/internal/domain/draft"
	"github.com/okian/bricklayers/pkg/logger"
	"github.com/okian/bricklayers/pkg/metrics"
)

// Identity advertised to MCP clients.
const (
	ServerName    = "bricklayers-draft"
	ServerVersion = "1.0.0"
)

// ErrInvalidMode is returned for modes other than live and roster.
var ErrInvalidMode = errors.New("mode must be live or roster")

// Dependencies are the service operations the tools call.
type Dependencies interface {
	BestAvailable(ctx context.Context, leagueID string, q service.Query) (service.Recommendation, error)
	Needs(ctx context.Context, leagueID string, live bool) (service.NeedsReport, error)
	GetState(ctx context.Context, leagueID string) (draft.Snapshot, error)
	AddPick(ctx context.Context, leagueID, playerID string, mine bool) (draft.Snapshot, error)
	RemovePick(ctx context.Context, leagueID, playerID string) (draft.Snapshot, error)
	Reset(ctx context.Context, leagueID string) (draft.Snapshot, error)
}

// BestAvailableArgs are the arguments of best_available.
type BestAvailableArgs struct {
	League    string   `json:"league" jsonschema:"Draft league id (required)"`
	Positions []string `json:"positions,omitempty" jsonschema:"Only players eligible at any of these positions"`
	Limit     int      `json:"limit,omitempty" jsonschema:"Maximum players to return (0 = server default)"`
	Mode      string   `json:"mode,omitempty" jsonschema:"Needs source: live (my picks) or roster (saved roster, default)"`
}

// NeedsArgs are the arguments of team_needs.
type NeedsArgs struct {
	League string `json:"league" jsonschema:"Draft league id (required)"`
	Mode   string `json:"mode,omitempty" jsonschema:"Needs source: live or roster (default)"`
}

// PickArgs are the arguments of add_pick and remove_pick.
type PickArgs struct {
	League   string `json:"league" jsonschema:"Draft league id (required)"`
	PlayerID string `json:"player_id" jsonschema:"Pool player id (required)"`
	Mine     bool   `json:"mine,omitempty" jsonschema:"True when the pick belongs to my team (add_pick only)"`
}

// LeagueArgs are the arguments of tools that only need a league.
type LeagueArgs struct {
	League string `json:"league" jsonschema:"Draft league id (required)"`
}

// Tools registers the draft tools on an MCP server.
type Tools struct {
	deps   Dependencies
	logger logger.Logger
	server *mcp.Server
}

// New builds the MCP server and registers every tool on it.
func New(deps Dependencies, log logger.Logger) *Tools {
	t := &Tools{deps: deps, logger: log}
	t.server = mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)

	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "best_available",
		Description: "Rank undrafted players for a league, weighted by the team's category needs",
	}, t.bestAvailable)
	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "team_needs",
		Description: "Category aggregate and derived weights for the league's team",
	}, t.teamNeeds)
	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "add_pick",
		Description: "Record a drafted player; set mine for my own picks",
	}, t.addPick)
	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "remove_pick",
		Description: "Undo a recorded pick",
	}, t.removePick)
	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "reset_draft",
		Description: "Clear all picks of a league",
	}, t.resetDraft)
	mcp.AddTool(t.server, &mcp.Tool{
		Name:        "draft_state",
		Description: "Drafted players and my picks for a league",
	}, t.draftState)

	return t
}

// Server returns the underlying MCP server.
func (t *Tools) Server() *mcp.Server {
	return t.server
}

// Handler serves the tools over streamable HTTP.
func (t *Tools) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return t.server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (t *Tools) bestAvailable(ctx context.Context, _ *mcp.CallToolRequest, args BestAvailableArgs) (*mcp.CallToolResult, any, error) {
	live, err := parseMode(args.Mode)
	if err != nil {
		return t.toolError(ctx, "best_available", err), nil, nil
	}
	rec, err := t.deps.BestAvailable(ctx, args.League, service.Query{
		Positions: upper(args.Positions),
		Limit:     args.Limit,
		Live:      live,
	})
	return t.toolJSON(ctx, "best_available", rec, err)
}

func (t *Tools) teamNeeds(ctx context.Context, _ *mcp.CallToolRequest, args NeedsArgs) (*mcp.CallToolResult, any, error) {
	live, err := parseMode(args.Mode)
	if err != nil {
		return t.toolError(ctx, "team_needs", err), nil, nil
	}
	report, err := t.deps.Needs(ctx, args.League, live)
	return t.toolJSON(ctx, "team_needs", report, err)
}

func (t *Tools) addPick(ctx context.Context, _ *mcp.CallToolRequest, args PickArgs) (*mcp.CallToolResult, any, error) {
	st, err := t.deps.AddPick(ctx, args.League, args.PlayerID, args.Mine)
	return t.toolJSON(ctx, "add_pick", st, err)
}

func (t *Tools) removePick(ctx context.Context, _ *mcp.CallToolRequest, args PickArgs) (*mcp.CallToolResult, any, error) {
	st, err := t.deps.RemovePick(ctx, args.League, args.PlayerID)
	return t.toolJSON(ctx, "remove_pick", st, err)
}

func (t *Tools) resetDraft(ctx context.Context, _ *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
	st, err := t.deps.Reset(ctx, args.League)
	return t.toolJSON(ctx, "reset_draft", st, err)
}

func (t *Tools) draftState(ctx context.Context, _ *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
	st, err := t.deps.GetState(ctx, args.League)
	return t.toolJSON(ctx, "draft_state", st, err)
}

// Failures come back as error results, never as protocol errors.
func (t *Tools) toolJSON(ctx context.Context, tool string, v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return t.toolError(ctx, tool, err), nil, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return t.toolError(ctx, tool, err), nil, nil
	}
	t.logger.Debug(ctx, "mcp tool call", logger.String("tool", tool))
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}

func (t *Tools) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	metrics.RecordErrorByComponent("mcp", tool)
	t.logger.Warn(ctx, "mcp tool failed", logger.String("tool", tool), logger.Error(err))
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)}},
	}
}

func parseMode(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", service.ModeRoster:
		return false, nil
	case service.ModeLive:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

func upper(positions []string) []string {
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
