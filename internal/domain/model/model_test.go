package model_test

import (
	"math"
	"testing"

	model "github.com/okian/bricklayers/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayerRecord(t *testing.T) {
	convey.Convey("Given a player record", t, func() {
		p := model.PlayerRecord{
			ID:        "p1",
			Name:      "Player One",
			Positions: []string{"PG", "SG"},
			Categories: map[string]float64{
				"pts": 24.5,
				"reb": math.NaN(),
				"ast": math.Inf(1),
			},
		}

		convey.Convey("When reading a present category", func() {
			v, ok := p.Value("pts")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 24.5)
		})

		convey.Convey("When reading absent or non-finite categories", func() {
			for _, cat := range []string{"stl", "reb", "ast"} {
				_, ok := p.Value(cat)
				convey.So(ok, convey.ShouldBeFalse)
			}
		})

		convey.Convey("When checking positions", func() {
			convey.So(p.HasAnyPosition([]string{"C", "SG"}), convey.ShouldBeTrue)
			convey.So(p.HasAnyPosition([]string{"C"}), convey.ShouldBeFalse)
			convey.So(p.HasAnyPosition(nil), convey.ShouldBeFalse)
		})
	})
}

func TestLowerIsBetter(t *testing.T) {
	convey.Convey("Only the turnover category is inverted", t, func() {
		convey.So(model.LowerIsBetter("to"), convey.ShouldBeTrue)
		convey.So(model.LowerIsBetter("TO"), convey.ShouldBeTrue)
		convey.So(model.LowerIsBetter("turnovers"), convey.ShouldBeTrue)
		convey.So(model.LowerIsBetter("pts"), convey.ShouldBeFalse)
		convey.So(model.LowerIsBetter("tov_pct"), convey.ShouldBeFalse)
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given records with a duplicate id", t, func() {
		pool := model.NewPool([]model.PlayerRecord{
			{ID: "a", Name: "A"},
			{ID: "b", Name: "B"},
			{ID: "a", Name: "A2"},
		})

		convey.Convey("Then the later record replaces the earlier one in place", func() {
			convey.So(pool.Len(), convey.ShouldEqual, 2)
			players := pool.Players()
			convey.So(players[0].Name, convey.ShouldEqual, "A2")
			convey.So(players[1].ID, convey.ShouldEqual, "b")

			got, ok := pool.Get("a")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got.Name, convey.ShouldEqual, "A2")
		})

		convey.Convey("And unknown ids are not found", func() {
			_, ok := pool.Get("zzz")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("A nil pool behaves as empty", t, func() {
		var pool *model.Pool
		convey.So(pool.Len(), convey.ShouldEqual, 0)
		convey.So(pool.Players(), convey.ShouldBeEmpty)
		_, ok := pool.Get("a")
		convey.So(ok, convey.ShouldBeFalse)
	})
}
