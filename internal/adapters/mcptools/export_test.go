package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (t *Tools) BestAvailable(ctx context.Context, args BestAvailableArgs) (*mcp.CallToolResult, error) {
	res, _, err := t.bestAvailable(ctx, nil, args)
	return res, err
}

func (t *Tools) AddPick(ctx context.Context, args PickArgs) (*mcp.CallToolResult, error) {
	res, _, err := t.addPick(ctx, nil, args)
	return res, err
}

var ParseMode = parseMode
