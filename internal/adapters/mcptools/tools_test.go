package mcptools_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/bricklayers/internal/adapters/mcptools"
	service "github.com/okian/bricklayers/internal/app"
	"github.com/okian/bricklayers/internal/domain/draft"
	"github.com/okian/bricklayers/internal/domain/model"
	"github.com/okian/bricklayers/pkg/logger"
)

func newTools() *mcptools.Tools {
	log := logger.New(io.Discard, slog.LevelDebug)
	svc := service.New(
		service.WithLogger(log),
		service.WithCategories([]string{"pts"}),
		service.WithPool(model.NewPool([]model.PlayerRecord{
			{ID: "A", Name: "A", Positions: []string{"PG"}, Categories: map[string]float64{"pts": 30}},
			{ID: "B", Name: "B", Positions: []string{"C"}, Categories: map[string]float64{"pts": 20}},
			{ID: "C", Name: "C", Positions: []string{"PG"}, Categories: map[string]float64{"pts": 10}},
		})),
	)
	return mcptools.New(svc, log)
}

func text(res *mcp.CallToolResult) string {
	So(res, ShouldNotBeNil)
	So(len(res.Content), ShouldEqual, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	So(ok, ShouldBeTrue)
	return tc.Text
}

func TestToolHandlers(t *testing.T) {
	Convey("Given the draft tools", t, func() {
		ctx := context.Background()
		tools := newTools()

		Convey("When best_available is called for guards", func() {
			res, err := tools.BestAvailable(ctx, mcptools.BestAvailableArgs{League: "l1", Positions: []string{"pg"}})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeFalse)

			var rec service.Recommendation
			So(json.Unmarshal([]byte(text(res)), &rec), ShouldBeNil)

			Convey("Then only guards are ranked", func() {
				So(len(rec.Players), ShouldEqual, 2)
				So(rec.Players[0].ID, ShouldEqual, "A")
				So(rec.Players[1].ID, ShouldEqual, "C")
			})
		})

		Convey("When a pick is added", func() {
			res, err := tools.AddPick(ctx, mcptools.PickArgs{League: "l1", PlayerID: "A", Mine: true})
			So(err, ShouldBeNil)

			var st draft.Snapshot
			So(json.Unmarshal([]byte(text(res)), &st), ShouldBeNil)
			So(st.MyPicks, ShouldResemble, []string{"A"})

			Convey("Then best_available skips it", func() {
				res, _ := tools.BestAvailable(ctx, mcptools.BestAvailableArgs{League: "l1", Mode: "live"})
				var rec service.Recommendation
				So(json.Unmarshal([]byte(text(res)), &rec), ShouldBeNil)
				So(len(rec.Players), ShouldEqual, 2)
				So(rec.Mode, ShouldEqual, service.ModeLive)
			})
		})

		Convey("When arguments are invalid", func() {
			res, err := tools.BestAvailable(ctx, mcptools.BestAvailableArgs{League: "l1", Mode: "weekly"})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeTrue)
			So(text(res), ShouldContainSubstring, "mode must be live or roster")

			res, err = tools.AddPick(ctx, mcptools.PickArgs{League: "l1"})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeTrue)
			So(text(res), ShouldContainSubstring, "player id must not be empty")
		})
	})
}

func TestParseMode(t *testing.T) {
	Convey("Modes default to roster", t, func() {
		live, err := mcptools.ParseMode("")
		So(err, ShouldBeNil)
		So(live, ShouldBeFalse)

		live, err = mcptools.ParseMode(" LIVE ")
		So(err, ShouldBeNil)
		So(live, ShouldBeTrue)

		_, err = mcptools.ParseMode("keeper")
		So(errors.Is(err, mcptools.ErrInvalidMode), ShouldBeTrue)
	})
}

func TestServerSession(t *testing.T) {
	Convey("Given a client connected over in-memory transports", t, func() {
		ctx := context.Background()
		tools := newTools()

		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		ss, err := tools.Server().Connect(ctx, serverTransport, nil)
		So(err, ShouldBeNil)
		defer func() { _ = ss.Close() }()

		client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
		cs, err := client.Connect(ctx, clientTransport, nil)
		So(err, ShouldBeNil)
		defer func() { _ = cs.Close() }()

		Convey("Then every draft tool is listed", func() {
			list, err := cs.ListTools(ctx, nil)
			So(err, ShouldBeNil)
			names := make([]string, 0, len(list.Tools))
			for _, tool := range list.Tools {
				names = append(names, tool.Name)
			}
			sort.Strings(names)
			So(names, ShouldResemble, []string{
				"add_pick", "best_available", "draft_state", "remove_pick", "reset_draft", "team_needs",
			})
		})

		Convey("And tools can be called by name", func() {
			res, err := cs.CallTool(ctx, &mcp.CallToolParams{
				Name:      "add_pick",
				Arguments: map[string]any{"league": "l1", "player_id": "B"},
			})
			So(err, ShouldBeNil)
			So(res.IsError, ShouldBeFalse)

			res, err = cs.CallTool(ctx, &mcp.CallToolParams{
				Name:      "draft_state",
				Arguments: map[string]any{"league": "l1"},
			})
			So(err, ShouldBeNil)
			var st draft.Snapshot
			So(json.Unmarshal([]byte(text(res)), &st), ShouldBeNil)
			So(st.Drafted, ShouldResemble, []string{"B"})
			So(st.MyPicks, ShouldBeEmpty)
		})
	})
}
